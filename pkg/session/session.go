// Package session orchestrates a project being designed: every room
// mutation re-runs the resolver and evaluator and returns the new state.
//
// A Session serialises all mutations behind one mutex. Each room carries a
// version token that increments on every change; callers that pass the
// version they last saw get ErrVersionConflict instead of overwriting a
// concurrent edit. AnyVersion opts out and keeps last-write-wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/engine"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
)

var (
	ErrRoomNotFound    = errors.New("session: room not found")
	ErrRoomExists      = errors.New("session: room already exists")
	ErrVersionConflict = errors.New("session: room version conflict")
)

// AnyVersion skips the optimistic concurrency check.
const AnyVersion uint64 = 0

// Mutation edits a room in place. Returning an error discards the edit.
type Mutation func(room *design.RoomConfiguration) error

// Drafter produces a structured room draft from a free-text brief.
type Drafter interface {
	DraftRoom(ctx context.Context, brief string) (design.RoomDraft, error)
}

// RoomState is a room after a mutation together with the evaluation of the
// whole project at that point.
type RoomState struct {
	Room     design.RoomConfiguration `json:"room"`
	Version  uint64                   `json:"version"`
	Resolved []design.EquipmentLine   `json:"resolved"`
	Added    []design.EquipmentLine   `json:"added"`
	Removed  []design.EquipmentLine   `json:"removed"`
	// Findings holds every finding of the project, project scope included.
	Findings findings.List `json:"findings"`
}

// RoomFindings returns the findings scoped to the room.
func (s *RoomState) RoomFindings() findings.List {
	return s.Findings.ByRoom(s.Room.ID)
}

// Session holds one project under edit.
type Session struct {
	mu       sync.Mutex
	engine   *engine.Engine
	project  design.ProjectConfiguration
	versions map[string]uint64
	logger   *slog.Logger
}

// New starts a session over a copy of project.
func New(eng *engine.Engine, project design.ProjectConfiguration) (*Session, error) {
	if project.ProjectID == "" {
		project.ProjectID = uuid.NewString()
	}
	if err := design.ValidateProject(project); err != nil {
		return nil, err
	}
	s := &Session{
		engine:   eng,
		project:  project.Clone(),
		versions: make(map[string]uint64, len(project.Rooms)),
		logger:   slog.Default().With("component", "session", "project", project.ProjectID),
	}
	for _, r := range s.project.Rooms {
		s.versions[r.ID] = 1
	}
	return s, nil
}

// ProjectID returns the project's id.
func (s *Session) ProjectID() string {
	return s.project.ProjectID
}

// Snapshot returns a deep copy of the current project for persistence.
func (s *Session) Snapshot() design.ProjectConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Clone()
}

// Version returns the room's current version token.
func (s *Session) Version(roomID string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.versions[roomID]
	return v, ok
}

// Evaluate resolves and evaluates the current project without changing it.
func (s *Session) Evaluate(ctx context.Context) (*engine.Report, error) {
	s.mu.Lock()
	project := s.project.Clone()
	s.mu.Unlock()
	return s.engine.Evaluate(ctx, project)
}

// AddRoom appends room to the project, assigning an id when it has none,
// and resolves it.
func (s *Session) AddRoom(ctx context.Context, room design.RoomConfiguration) (*RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room = room.Clone()
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if _, _, ok := s.project.Room(room.ID); ok {
		return nil, fmt.Errorf("add room %s: %w", room.ID, ErrRoomExists)
	}
	if err := design.ValidateRoom(room); err != nil {
		return nil, fmt.Errorf("add room %s: %w", room.ID, err)
	}

	state, err := s.commit(ctx, room, len(s.project.Rooms))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "room added", "room", room.ID)
	return state, nil
}

// RemoveRoom drops a room and its findings and returns the re-evaluated
// project.
func (s *Session) RemoveRoom(ctx context.Context, roomID string, expectedVersion uint64) (*engine.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, err := s.lookup(roomID, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("remove room %s: %w", roomID, err)
	}

	next := s.project.Clone()
	next.Rooms = slices.Delete(next.Rooms, idx, idx+1)
	report, err := s.engine.Evaluate(ctx, next)
	if err != nil {
		return nil, err
	}
	s.project = next
	delete(s.versions, roomID)
	s.logger.InfoContext(ctx, "room removed", "room", roomID)
	return report, nil
}

// UpdateRoom applies mutation to a copy of the room, re-resolves it and
// re-evaluates the project. The session is unchanged when the mutation,
// validation or evaluation fails.
func (s *Session) UpdateRoom(ctx context.Context, roomID string, expectedVersion uint64, mutation Mutation) (*RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, idx, err := s.lookup(roomID, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("update room %s: %w", roomID, err)
	}

	room := current.Clone()
	if err := mutation(&room); err != nil {
		return nil, fmt.Errorf("update room %s: %w", roomID, err)
	}
	if room.ID != roomID {
		return nil, fmt.Errorf("update room %s: room id cannot change", roomID)
	}
	if err := design.ValidateRoom(room); err != nil {
		return nil, fmt.Errorf("update room %s: %w", roomID, err)
	}
	return s.commit(ctx, room, idx)
}

// RevertRoom discards resolver entries and resolves again from the user's
// own selections.
func (s *Session) RevertRoom(ctx context.Context, roomID string, expectedVersion uint64) (*RoomState, error) {
	return s.UpdateRoom(ctx, roomID, expectedVersion, func(room *design.RoomConfiguration) error {
		room.ManuallyAddedEquipment = room.UserEquipment()
		return nil
	})
}

// SeedRoom asks drafter for the room's features and I/O points and applies
// them. The drafter runs before the session lock is taken, so a slow model
// never blocks other edits; the version check then guards against edits
// made in the meantime.
func (s *Session) SeedRoom(ctx context.Context, roomID string, expectedVersion uint64, drafter Drafter, brief string) (*RoomState, error) {
	if expectedVersion == AnyVersion {
		v, ok := s.Version(roomID)
		if !ok {
			return nil, fmt.Errorf("seed room %s: %w", roomID, ErrRoomNotFound)
		}
		expectedVersion = v
	}

	draft, err := drafter.DraftRoom(ctx, brief)
	if err != nil {
		return nil, fmt.Errorf("seed room %s: %w", roomID, err)
	}
	return s.UpdateRoom(ctx, roomID, expectedVersion, func(room *design.RoomConfiguration) error {
		draft.Apply(room)
		return nil
	})
}

func (s *Session) lookup(roomID string, expectedVersion uint64) (*design.RoomConfiguration, int, error) {
	room, idx, ok := s.project.Room(roomID)
	if !ok {
		return nil, -1, ErrRoomNotFound
	}
	if expectedVersion != AnyVersion && s.versions[roomID] != expectedVersion {
		return nil, -1, fmt.Errorf("%w: have %d, caller expected %d", ErrVersionConflict, s.versions[roomID], expectedVersion)
	}
	return room, idx, nil
}

// commit resolves room, places it at idx (appending when idx equals the
// room count), evaluates the result and only then swaps it in.
// Callers hold s.mu.
func (s *Session) commit(ctx context.Context, room design.RoomConfiguration, idx int) (*RoomState, error) {
	resolved, res, err := s.engine.Revert(ctx, room)
	if err != nil {
		return nil, err
	}

	next := s.project.Clone()
	if idx == len(next.Rooms) {
		next.Rooms = append(next.Rooms, resolved)
	} else {
		next.Rooms[idx] = resolved
	}
	report, err := s.engine.Evaluate(ctx, next)
	if err != nil {
		return nil, err
	}

	s.project = next
	s.versions[room.ID]++
	return &RoomState{
		Room:     resolved.Clone(),
		Version:  s.versions[room.ID],
		Resolved: res.Lines,
		Added:    res.Added,
		Removed:  res.Removed,
		Findings: report.Findings,
	}, nil
}

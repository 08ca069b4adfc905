package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/engine"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/session"
)

const maxBodyBytes = 1 << 20

// ProjectResponse is a project snapshot with its evaluation and the
// current version token of each room.
type ProjectResponse struct {
	Project  design.ProjectConfiguration `json:"project"`
	Versions map[string]uint64           `json:"versions"`
	Report   *engine.Report              `json:"report"`
}

// DraftRequest carries a free-text room brief.
type DraftRequest struct {
	Brief string `json:"brief"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteBadRequest(w, r, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// expectedVersion reads If-Match. An absent header or "*" skips the check.
func expectedVersion(r *http.Request) (uint64, error) {
	h := strings.TrimSpace(r.Header.Get("If-Match"))
	if h == "" || h == "*" {
		return session.AnyVersion, nil
	}
	h = strings.Trim(strings.TrimPrefix(h, "W/"), `"`)
	v, err := strconv.ParseUint(h, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New("If-Match must be a positive room version")
	}
	return v, nil
}

func setETag(w http.ResponseWriter, version uint64) {
	w.Header().Set("ETag", strconv.Quote(strconv.FormatUint(version, 10)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Catalog().Snapshot()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "no catalog"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"catalogVersion":  snap.Version().String(),
		"catalogHash":     snap.Hash(),
		"catalogLoadedAt": snap.LoadedAt(),
		"products":        snap.Len(),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var project design.ProjectConfiguration
	if !decodeBody(w, r, &project) {
		return
	}
	if err := design.ValidateProject(project); err != nil {
		WriteDomainError(w, r, err)
		return
	}
	report, err := s.engine.Evaluate(r.Context(), project)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var room design.RoomConfiguration
	if !decodeBody(w, r, &room) {
		return
	}
	if err := design.ValidateRoom(room); err != nil {
		WriteDomainError(w, r, err)
		return
	}
	res, err := s.engine.Resolve(r.Context(), room)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.Catalog().FindBySku(r.PathValue("sku"))
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		WriteInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var project design.ProjectConfiguration
	if !decodeBody(w, r, &project) {
		return
	}
	sess, err := s.open(r.Context(), project)
	if errors.Is(err, errProjectExists) {
		WriteError(w, r, http.StatusConflict, "Conflict", "A project with this id already exists.")
		return
	}
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	s.writeProject(w, r, sess, http.StatusCreated)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	s.writeProject(w, r, sess, http.StatusOK)
}

func (s *Server) writeProject(w http.ResponseWriter, r *http.Request, sess *session.Session, status int) {
	report, err := sess.Evaluate(r.Context())
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	project := sess.Snapshot()
	versions := make(map[string]uint64, len(project.Rooms))
	for _, room := range project.Rooms {
		if v, ok := sess.Version(room.ID); ok {
			versions[room.ID] = v
		}
	}
	writeJSON(w, status, ProjectResponse{Project: project, Versions: versions, Report: report})
}

func (s *Server) handleAddRoom(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	var room design.RoomConfiguration
	if !decodeBody(w, r, &room) {
		return
	}
	state, err := sess.AddRoom(r.Context(), room)
	s.writeRoomState(w, r, sess, state, err, http.StatusCreated)
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	sess, version, ok := s.roomRequest(w, r)
	if !ok {
		return
	}
	roomID := r.PathValue("roomID")
	var body design.RoomConfiguration
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ID != "" && body.ID != roomID {
		WriteBadRequest(w, r, "Room id in body does not match the path.")
		return
	}
	state, err := sess.UpdateRoom(r.Context(), roomID, version, func(room *design.RoomConfiguration) error {
		*room = body.Clone()
		room.ID = roomID
		return nil
	})
	s.writeRoomState(w, r, sess, state, err, http.StatusOK)
}

func (s *Server) handleRevertRoom(w http.ResponseWriter, r *http.Request) {
	sess, version, ok := s.roomRequest(w, r)
	if !ok {
		return
	}
	state, err := sess.RevertRoom(r.Context(), r.PathValue("roomID"), version)
	s.writeRoomState(w, r, sess, state, err, http.StatusOK)
}

func (s *Server) handleDraftRoom(w http.ResponseWriter, r *http.Request) {
	if s.drafter == nil {
		WriteError(w, r, http.StatusNotImplemented, "Not Implemented", "Room drafting is not configured.")
		return
	}
	sess, version, ok := s.roomRequest(w, r)
	if !ok {
		return
	}
	var req DraftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Brief) == "" {
		WriteBadRequest(w, r, "brief is required")
		return
	}
	state, err := sess.SeedRoom(r.Context(), r.PathValue("roomID"), version, s.drafter, req.Brief)
	s.writeRoomState(w, r, sess, state, err, http.StatusOK)
}

func (s *Server) handleRemoveRoom(w http.ResponseWriter, r *http.Request) {
	sess, version, ok := s.roomRequest(w, r)
	if !ok {
		return
	}
	report, err := sess.RemoveRoom(r.Context(), r.PathValue("roomID"), version)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	if err := s.persist(r.Context(), sess); err != nil {
		WriteInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) roomRequest(w http.ResponseWriter, r *http.Request) (*session.Session, uint64, bool) {
	version, err := expectedVersion(r)
	if err != nil {
		WriteBadRequest(w, r, err.Error())
		return nil, 0, false
	}
	sess, err := s.session(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, r, err)
		return nil, 0, false
	}
	return sess, version, true
}

func (s *Server) writeRoomState(w http.ResponseWriter, r *http.Request, sess *session.Session, state *session.RoomState, err error, status int) {
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	if err := s.persist(r.Context(), sess); err != nil {
		WriteInternal(w, r, err)
		return
	}
	setETag(w, state.Version)
	writeJSON(w, status, state)
}

package projectstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

type memoryEntry struct {
	data    []byte
	summary Summary
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, p design.ProjectConfiguration) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ProjectID] = memoryEntry{data: data, summary: summaryOf(p, m.now().UTC())}
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, projectID string) (design.ProjectConfiguration, error) {
	m.mu.RLock()
	e, ok := m.projects[projectID]
	m.mu.RUnlock()
	if !ok {
		return design.ProjectConfiguration{}, ErrNotFound
	}
	return decode(projectID, e.data)
}

// List returns summaries, most recently updated first.
func (m *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	m.mu.RLock()
	out := make([]Summary, 0, len(m.projects))
	for _, e := range m.projects {
		out = append(out, e.summary)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ProjectID, b.ProjectID)
	})
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[projectID]; !ok {
		return ErrNotFound
	}
	delete(m.projects, projectID)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

package catalog

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Store serves the current catalog snapshot. Loads replace the snapshot
// wholesale and atomically; readers never observe a half-loaded catalog.
type Store struct {
	current atomic.Pointer[Snapshot]

	mu       sync.Mutex // serialises loads
	onReload []func(*Snapshot)
	logger   *slog.Logger
}

// NewStore returns an empty store. Queries fail with ErrNotLoaded until
// the first successful Load.
func NewStore() *Store {
	return &Store{
		logger: slog.Default().With("component", "catalog"),
	}
}

// LoadOption adjusts a single load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	allowDowngrade bool
}

// AllowDowngrade permits replacing a catalog with an older version.
func AllowDowngrade() LoadOption {
	return func(o *loadOptions) { o.allowDowngrade = true }
}

// OnReload registers a callback invoked after each successful swap.
func (s *Store) OnReload(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// Load parses data and, if valid, swaps it in. On any error the previously
// loaded snapshot keeps serving.
func (s *Store) Load(data []byte, opts ...LoadOption) (*Snapshot, error) {
	snap, err := Parse(data)
	if err != nil {
		s.logger.Error("catalog rejected", "error", err)
		return nil, err
	}
	if err := s.Replace(snap, opts...); err != nil {
		return nil, err
	}
	return snap, nil
}

// Replace swaps in an already-built snapshot.
func (s *Store) Replace(snap *Snapshot, opts ...LoadOption) error {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	prev := s.current.Load()
	if prev != nil && !o.allowDowngrade && snap.Version().LessThan(prev.Version()) {
		s.mu.Unlock()
		return &LoadError{Issues: []string{
			fmt.Sprintf("version %s is older than loaded %s", snap.Version(), prev.Version()),
		}}
	}
	s.current.Store(snap)
	hooks := append([]func(*Snapshot){}, s.onReload...)
	s.mu.Unlock()

	s.logger.Info("catalog loaded",
		"version", snap.Version().String(),
		"products", snap.Len(),
		"hash", snap.Hash(),
	)
	for _, fn := range hooks {
		fn(snap)
	}
	return nil
}

// Snapshot returns the serving snapshot, or ErrNotLoaded.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// FindBySku looks sku up in the serving snapshot.
func (s *Store) FindBySku(sku string) (Product, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return Product{}, err
	}
	return snap.FindBySku(sku)
}

// FindByTags queries the serving snapshot by tags.
func (s *Store) FindByTags(tags []string, mode TagMatch) []Product {
	snap, err := s.Snapshot()
	if err != nil {
		return nil
	}
	return snap.FindByTags(tags, mode)
}

// IsEndOfLife reports EOL status from the serving snapshot.
func (s *Store) IsEndOfLife(sku string) bool {
	snap, err := s.Snapshot()
	if err != nil {
		return false
	}
	return snap.IsEndOfLife(sku)
}

// Package source fetches catalog documents from files or object storage and
// feeds them into a catalog.Store.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
)

// Source returns the raw bytes of a catalog document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Location describes where the document lives, for logs.
	Location() string
}

// FileSource reads a catalog from the local filesystem.
type FileSource struct {
	Path string
}

// NewFileSource returns a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", f.Path, err)
	}
	return data, nil
}

func (f *FileSource) Location() string { return "file://" + f.Path }

// Load fetches src and loads it into store. A failed fetch or parse leaves
// the store's current catalog in place.
func Load(ctx context.Context, src Source, store *catalog.Store, opts ...catalog.LoadOption) (*catalog.Snapshot, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := store.Load(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", src.Location(), err)
	}
	slog.Default().With("component", "catalog-source").InfoContext(ctx, "catalog loaded",
		"location", src.Location(), "version", snap.Version().String(), "products", snap.Len())
	return snap, nil
}

package catalog

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/canonicalize"
)

// TagMatch selects how FindByTags combines the requested tags.
type TagMatch int

const (
	// MatchAny returns products carrying at least one of the tags.
	MatchAny TagMatch = iota
	// MatchAll returns products carrying every tag.
	MatchAll
)

// Snapshot is an immutable, indexed catalog. All accessors return copies.
type Snapshot struct {
	version  *semver.Version
	products []Product
	index    map[string]int
	tasks    []InstallationTask
	hash     string
	loadedAt time.Time
}

func newSnapshot(version *semver.Version, products []Product, index map[string]int, tasks []InstallationTask) (*Snapshot, error) {
	hash, err := canonicalize.CanonicalHash(Document{
		Version:  version.String(),
		Products: products,
		Tasks:    tasks,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: hash snapshot: %w", err)
	}
	return &Snapshot{
		version:  version,
		products: products,
		index:    index,
		tasks:    tasks,
		hash:     hash,
		loadedAt: time.Now().UTC(),
	}, nil
}

// Version returns the catalog's semantic version.
func (s *Snapshot) Version() *semver.Version { return s.version }

// Hash returns the SHA-256 of the canonical JSON form of the catalog.
func (s *Snapshot) Hash() string { return s.hash }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of products.
func (s *Snapshot) Len() int { return len(s.products) }

// FindBySku returns the product for sku, or an *UnknownSkuError matching ErrNotFound.
func (s *Snapshot) FindBySku(sku string) (Product, error) {
	i, ok := s.index[NormalizeSKU(sku)]
	if !ok {
		return Product{}, &UnknownSkuError{SKU: sku}
	}
	return s.products[i].Clone(), nil
}

// Contains reports whether sku is in the catalog.
func (s *Snapshot) Contains(sku string) bool {
	_, ok := s.index[NormalizeSKU(sku)]
	return ok
}

// IsEndOfLife reports whether sku is discontinued. Unknown SKUs are not EOL;
// they are reported separately as unknown references.
func (s *Snapshot) IsEndOfLife(sku string) bool {
	i, ok := s.index[NormalizeSKU(sku)]
	return ok && s.products[i].EOL
}

// Products returns every product in declaration order.
func (s *Snapshot) Products() []Product {
	out := make([]Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// FindByTags returns products matching tags in declaration order.
// An empty tag set matches nothing.
func (s *Snapshot) FindByTags(tags []string, mode TagMatch) []Product {
	if len(tags) == 0 {
		return nil
	}
	var out []Product
	for _, p := range s.products {
		if matchTags(p, tags, mode) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func matchTags(p Product, tags []string, mode TagMatch) bool {
	for _, t := range tags {
		has := p.HasTag(normalizeTag(t))
		if mode == MatchAny && has {
			return true
		}
		if mode == MatchAll && !has {
			return false
		}
	}
	return mode == MatchAll
}

// Tasks returns the installation tasks in declaration order.
func (s *Snapshot) Tasks() []InstallationTask {
	out := make([]InstallationTask, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// TasksFor returns the installation tasks that apply to product p, matched
// by tag or by category.
func (s *Snapshot) TasksFor(p Product) []InstallationTask {
	category := normalizeTag(string(p.Category))
	var out []InstallationTask
	for _, t := range s.tasks {
		for _, tag := range t.AppliesTo {
			if p.HasTag(tag) || category == tag {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by lookups for a SKU absent from the catalog.
var ErrNotFound = errors.New("catalog: sku not found")

// ErrNotLoaded is returned when a store is queried before any catalog was loaded.
var ErrNotLoaded = errors.New("catalog: no catalog loaded")

// LoadError reports every problem found in a rejected catalog document.
// A LoadError never leaves a partially loaded catalog behind.
type LoadError struct {
	Issues []string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load failed: %d issue(s): %s", len(e.Issues), strings.Join(e.Issues, "; "))
}

func (e *LoadError) add(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

func (e *LoadError) orNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// UnknownSkuError is a reference to a SKU the catalog does not contain.
// The evaluator turns these into Warning findings instead of failing.
type UnknownSkuError struct {
	SKU     string
	Context string // where the reference came from, e.g. "room r1 equipment"
}

func (e *UnknownSkuError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("unknown sku %q", e.SKU)
	}
	return fmt.Sprintf("unknown sku %q (%s)", e.SKU, e.Context)
}

// Is lets errors.Is(err, ErrNotFound) match unknown-SKU errors.
func (e *UnknownSkuError) Is(target error) bool {
	return target == ErrNotFound
}

package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
)

// Matcher compiles and caches CEL product predicates.
type Matcher struct {
	env      *cel.Env
	mu       sync.RWMutex
	prgCache map[string]cel.Program
}

// NewMatcher creates a matcher with the product environment.
func NewMatcher() (*Matcher, error) {
	env, err := cel.NewEnv(
		cel.Variable("product", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Matcher{
		env:      env,
		prgCache: make(map[string]cel.Program),
	}, nil
}

// Compile checks expr and caches its program.
func (m *Matcher) Compile(expr string) error {
	_, err := m.program(expr)
	return err
}

func (m *Matcher) program(expr string) (cel.Program, error) {
	m.mu.RLock()
	prg, hit := m.prgCache[expr]
	m.mu.RUnlock()
	if hit {
		return prg, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prg, hit = m.prgCache[expr]; hit {
		return prg, nil
	}
	ast, issues := m.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsAssignableType(cel.BoolType) {
		return nil, fmt.Errorf("compile %q: predicate must be bool, got %s", expr, ast.OutputType())
	}
	p, err := m.env.Program(ast,
		cel.InterruptCheckFrequency(100),
		cel.CostLimit(10000),
	)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	m.prgCache[expr] = p
	return p, nil
}

// Match evaluates expr against p.
func (m *Matcher) Match(expr string, p catalog.Product) (bool, error) {
	prg, err := m.program(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(map[string]any{"product": productInput(p)})
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", expr, err)
	}
	val, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: result not bool", expr)
	}
	return val, nil
}

func productInput(p catalog.Product) map[string]any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"sku":         p.SKU,
		"name":        p.Name,
		"category":    string(p.Category),
		"tags":        tags,
		"dealerPrice": p.DealerPrice,
		"msrp":        p.MSRP,
		"eol":         p.EOL,
		"series":      int64(p.Series()),
		"multiview":   string(p.MultiviewMode()),
		"transmitter": p.IsTransmitter(),
		"receiver":    p.IsReceiver(),
		"kit":         p.IsKit(),
	}
}

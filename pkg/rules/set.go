package rules

import (
	"fmt"
	"log/slog"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
)

// Set is a compiled, immutable rule table.
type Set struct {
	rules   []Rule
	matcher *Matcher
	logger  *slog.Logger
}

// NewSet compiles every requirement expression. Any compile error rejects
// the whole set.
func NewSet(rules []Rule) (*Set, error) {
	m, err := NewMatcher()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(rules))
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.ID == "" || r.Feature == "" {
			return nil, fmt.Errorf("rules: rule %q missing id or feature", r.ID)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("rules: duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if !r.IsEnabled() {
			continue
		}
		for _, req := range r.Requirements {
			if err := m.Compile(req.Expression); err != nil {
				return nil, fmt.Errorf("rules: rule %s requirement %q: %w", r.ID, req.Name, err)
			}
		}
		kept = append(kept, r)
	}
	return &Set{
		rules:   kept,
		matcher: m,
		logger:  slog.Default().With("component", "rules"),
	}, nil
}

// Default returns the compiled built-in rule set.
func Default() *Set {
	s, err := NewSet(DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("rules: built-in rules do not compile: %v", err))
	}
	return s
}

// Rules returns the enabled rules in declaration order.
func (s *Set) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// ForFeature returns the rules implied by feature.
func (s *Set) ForFeature(feature string) []Rule {
	var out []Rule
	for _, r := range s.rules {
		if r.Feature == feature {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether p satisfies req. Evaluation errors count as no match.
func (s *Set) Matches(req Requirement, p catalog.Product) bool {
	ok, err := s.matcher.Match(req.Expression, p)
	if err != nil {
		s.logger.Warn("requirement evaluation failed", "requirement", req.Name, "sku", p.SKU, "error", err)
		return false
	}
	return ok
}

// MatchExpr evaluates an ad hoc predicate, compiling it on first use.
func (s *Set) MatchExpr(expr string, p catalog.Product) (bool, error) {
	return s.matcher.Match(expr, p)
}

// Satisfied reports whether any of products satisfies req.
func (s *Set) Satisfied(req Requirement, products []catalog.Product) bool {
	for _, p := range products {
		if s.Matches(req, p) {
			return true
		}
	}
	return false
}

// Candidate picks the default product for req: the preferred SKU when it is
// current and matches, otherwise the first current match in catalog
// declaration order. EOL products are never candidates.
func (s *Set) Candidate(rule Rule, req Requirement, snap *catalog.Snapshot) (catalog.Product, error) {
	if req.PreferredSKU != "" {
		if p, err := snap.FindBySku(req.PreferredSKU); err == nil && !p.EOL && s.Matches(req, p) {
			return p, nil
		}
	}
	for _, p := range snap.Products() {
		if p.EOL {
			continue
		}
		if s.Matches(req, p) {
			return p, nil
		}
	}
	return catalog.Product{}, &ConfigurationError{
		RuleID:      rule.ID,
		Feature:     rule.Feature,
		Requirement: req.Name,
	}
}

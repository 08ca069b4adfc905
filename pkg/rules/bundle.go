package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Bundle is a versioned file of extra rules. YAML is a superset of JSON so
// both encodings load through the same path.
type Bundle struct {
	Version string `yaml:"version" json:"version"`
	Name    string `yaml:"name" json:"name"`
	Rules   []Rule `yaml:"rules" json:"rules"`
}

// ParseBundle decodes a rule bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("rules: parse bundle: %w", err)
	}
	return &b, nil
}

// LoadBundleFile reads and decodes a rule bundle from path.
func LoadBundleFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("rules: read bundle: %w", err)
	}
	return ParseBundle(data)
}

// Merge returns base with bundle rules appended; a bundle rule with the
// same id replaces the base rule in place.
func Merge(base []Rule, bundles ...*Bundle) []Rule {
	out := make([]Rule, len(base))
	copy(out, base)
	pos := make(map[string]int, len(out))
	for i, r := range out {
		pos[r.ID] = i
	}
	for _, b := range bundles {
		if b == nil {
			continue
		}
		for _, r := range b.Rules {
			if i, ok := pos[r.ID]; ok {
				out[i] = r
				continue
			}
			pos[r.ID] = len(out)
			out = append(out, r)
		}
	}
	return out
}

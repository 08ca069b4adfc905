// Package rules holds the feature-implication rule table: for each declared
// room feature, the equipment capabilities it requires. Capabilities are CEL
// predicates evaluated against catalog products.
package rules

import (
	"fmt"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

// Requirement is one capability a feature implies, e.g. "camera".
type Requirement struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Expression is a CEL predicate over the variable `product`.
	Expression string `json:"expression" yaml:"expression"`
	// PreferredSKU is used as the default when present, current and matching.
	PreferredSKU string `json:"preferredSku,omitempty" yaml:"preferredSku,omitempty"`
}

// Rule maps a feature to the requirements it implies.
type Rule struct {
	ID           string        `json:"id" yaml:"id"`
	Feature      string        `json:"feature" yaml:"feature"`
	Requirements []Requirement `json:"requirements" yaml:"requirements"`
	Enabled      *bool         `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// IsEnabled defaults to true when unset.
func (r Rule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// Predicates shared by the built-in rules and the evaluator.
const (
	ExprCamera     = `product.category == "Camera" || "camera" in product.tags`
	ExprMicrophone = `product.category == "Microphone" || "microphone" in product.tags`
	ExprUSBC       = `"usb-c" in product.tags`
	ExprKVM        = `"kvm" in product.tags && product.category in ["Matrix", "HDBaseT", "Extender", "AVoIP"]`
	ExprDSP        = `"dsp" in product.tags`
	ExprMultiview  = `product.multiview == "native" || "multiview-switcher" in product.tags`
)

// DefaultRules returns the built-in feature implications.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:      "vc-hardware",
			Feature: design.FeatureVideoConferencing,
			Requirements: []Requirement{
				{Name: "camera", Description: "conference camera", Expression: ExprCamera},
				{Name: "microphone", Description: "conference microphone", Expression: ExprMicrophone},
			},
		},
		{
			ID:      "byom-input",
			Feature: design.FeatureBYOM,
			Requirements: []Requirement{
				{Name: "usb-c input", Description: "USB-C capable input for the guest laptop", Expression: ExprUSBC},
			},
		},
		{
			ID:      "kvm-control",
			Feature: design.FeatureKVMControl,
			Requirements: []Requirement{
				{Name: "kvm", Description: "KVM capable extender or matrix", Expression: ExprKVM},
			},
		},
	}
}

// ConfigurationError reports a rule requirement no catalog product satisfies.
// It is recovered as a Warning finding, never a crash.
type ConfigurationError struct {
	RuleID      string
	Feature     string
	Requirement string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rule %s: feature %q requires %q but no current catalog product matches",
		e.RuleID, e.Feature, e.Requirement)
}

// Package findings defines the tagged output of the rule evaluator and
// equipment resolver.
package findings

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// Kind is the finding's category. It is a closed set.
type Kind int

const (
	KindWarning Kind = iota
	KindSuggestion
	KindOpportunity
	KindInsight
	KindFinancial
)

var kindNames = [...]string{"Warning", "Suggestion", "Opportunity", "Insight", "Financial"}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("findings: unknown kind %q", s)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Code identifies the rule that produced a finding.
type Code string

const (
	CodeEndOfLife           Code = "end-of-life"
	CodeUnknownSku          Code = "unknown-sku"
	CodeUnpairedTransmitter Code = "unpaired-transmitter"
	CodeSeriesMix           Code = "avoip-series-mix"
	CodeSeriesIsolation     Code = "avoip-series-isolation"
	CodeLongHDMIRun         Code = "long-hdmi-run"
	CodeMissingVCHardware   Code = "missing-vc-hardware"
	CodeMissingBYOMInput    Code = "missing-byom-input"
	CodeAVoIPBackbone       Code = "avoip-backbone"
	CodeGoldAudioProcessing Code = "gold-audio-processing"
	CodeMultiviewSupport    Code = "multiview-support"
	CodeTierCategoryFit     Code = "tier-category-fit"
	CodeEquipmentCost       Code = "equipment-cost"
	CodeRuleConfiguration   Code = "rule-configuration"
)

// ProjectScope is the scope of project-level findings.
const ProjectScope = ""

// Finding is one evaluator or resolver output. Findings are recomputed on
// every pass and never mutated in place.
type Finding struct {
	Kind        Kind     `json:"kind"`
	Code        Code     `json:"code"`
	RoomID      string   `json:"roomId,omitempty"` // empty for project scope
	Message     string   `json:"message"`
	RelatedSkus []string `json:"relatedSkus"`
}

// IsProjectScope reports whether the finding applies to the whole project.
func (f Finding) IsProjectScope() bool { return f.RoomID == ProjectScope }

// Names reports whether sku is among the finding's related SKUs.
func (f Finding) Names(sku string) bool {
	return slices.Contains(f.RelatedSkus, sku)
}

// New builds a finding. relatedSkus may be empty.
func New(kind Kind, code Code, roomID, message string, relatedSkus ...string) Finding {
	if relatedSkus == nil {
		relatedSkus = []string{}
	}
	return Finding{
		Kind:        kind,
		Code:        code,
		RoomID:      roomID,
		Message:     message,
		RelatedSkus: relatedSkus,
	}
}

// List is an ordered finding sequence.
type List []Finding

// Filter returns findings for which keep returns true.
func (l List) Filter(keep func(Finding) bool) List {
	var out List
	for _, f := range l {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// ByCode returns findings with code.
func (l List) ByCode(code Code) List {
	return l.Filter(func(f Finding) bool { return f.Code == code })
}

// ByRoom returns findings scoped to roomID (ProjectScope for project-level).
func (l List) ByRoom(roomID string) List {
	return l.Filter(func(f Finding) bool { return f.RoomID == roomID })
}

// ByKind returns findings of kind.
func (l List) ByKind(kind Kind) List {
	return l.Filter(func(f Finding) bool { return f.Kind == kind })
}

// Count returns the number of findings per kind.
func (l List) Count() map[Kind]int {
	out := make(map[Kind]int)
	for _, f := range l {
		out[f.Kind]++
	}
	return out
}

// Sort orders findings deterministically: project scope first, then by room
// order as given, kind, code, first related SKU and message.
func (l List) Sort(roomOrder []string) {
	pos := make(map[string]int, len(roomOrder))
	for i, id := range roomOrder {
		pos[id] = i + 1
	}
	slices.SortStableFunc(l, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(pos[a.RoomID], pos[b.RoomID]),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(first(a.RelatedSkus), first(b.RelatedSkus)),
			cmp.Compare(a.Message, b.Message),
		)
	})
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

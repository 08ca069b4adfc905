// Package resolver derives a room's complete, de-duplicated equipment list
// from its declared features and the user's own selections.
//
// Resolution always starts from the user baseline (entries with
// isAiGenerated=false). Resolver-derived entries from earlier runs are
// discarded and recomputed, which makes Resolve idempotent and gives
// "Revert to Default" and "Update Kit List" the same semantics.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/rules"
)

// Result is the outcome of resolving one room.
type Result struct {
	RoomID string `json:"roomId"`
	// Lines is the merged equipment list: user entries first, in their
	// original order, then resolver additions.
	Lines []design.EquipmentLine `json:"lines"`
	// Added lists quantities the resolver contributed beyond the user baseline.
	Added []design.EquipmentLine `json:"added"`
	// Removed lists resolver entries from the input that this run dropped.
	Removed []design.EquipmentLine `json:"removed"`
	// Findings holds rule configuration problems met while resolving.
	Findings findings.List `json:"findings"`
}

// Resolver applies feature implications and receiver pairing.
type Resolver struct {
	rules  *rules.Set
	logger *slog.Logger
}

// New returns a resolver over rule set rs.
func New(rs *rules.Set) *Resolver {
	return &Resolver{
		rules:  rs,
		logger: slog.Default().With("component", "resolver"),
	}
}

// Resolve computes the equipment list for room against snap. It performs one
// implication pass and one receiver-pairing pass; receivers added in the
// pairing pass are never themselves re-examined.
func (r *Resolver) Resolve(room design.RoomConfiguration, snap *catalog.Snapshot) Result {
	res := Result{RoomID: room.ID, Findings: findings.List{}}

	baseline := Merge(room.UserEquipment())
	working := newLineSet(baseline)

	// Step 2: feature implications.
	for _, feature := range room.Features {
		for _, rule := range r.rules.ForFeature(feature.Name) {
			for _, req := range rule.Requirements {
				if r.rules.Satisfied(req, working.products(snap)) {
					continue
				}
				p, err := r.rules.Candidate(rule, req, snap)
				if err != nil {
					res.Findings = append(res.Findings, configurationFinding(room.ID, err))
					r.logger.Warn("feature implication has no catalog candidate",
						"room", room.ID, "feature", feature.Name, "rule", rule.ID, "requirement", req.Name)
					continue
				}
				working.add(design.EquipmentLine{SKU: p.SKU, Quantity: 1, IsAIGenerated: true})
			}
		}
	}

	// Step 3: receiver pairing, over the lines present after step 2 only.
	for _, line := range working.snapshot() {
		tx, err := snap.FindBySku(line.SKU)
		if err != nil || !tx.IsTransmitter() || tx.IsKit() {
			continue
		}
		if len(tx.CompatibleReceivers) == 0 || working.hasAny(tx.CompatibleReceivers) {
			continue
		}
		rx, ok := firstAvailableReceiver(tx, snap)
		if !ok {
			r.logger.Debug("no current compatible receiver", "room", room.ID, "transmitter", tx.SKU)
			continue
		}
		working.add(design.EquipmentLine{SKU: rx, Quantity: line.Quantity, IsAIGenerated: true})
	}

	// Step 4: merge.
	res.Lines = Merge(working.lines)

	// Step 5: delta against the input.
	res.Added, res.Removed = delta(room.ManuallyAddedEquipment, res.Lines)
	return res
}

// Revert discards resolver entries and re-resolves from the user baseline,
// returning the updated room alongside the result.
func (r *Resolver) Revert(room design.RoomConfiguration, snap *catalog.Snapshot) (design.RoomConfiguration, Result) {
	res := r.Resolve(room, snap)
	out := room.Clone()
	out.ManuallyAddedEquipment = cloneLines(res.Lines)
	return out, res
}

// firstAvailableReceiver returns the first compatible receiver, in the
// transmitter's declaration order, that is in the catalog and not EOL.
func firstAvailableReceiver(tx catalog.Product, snap *catalog.Snapshot) (string, bool) {
	for _, sku := range tx.CompatibleReceivers {
		p, err := snap.FindBySku(sku)
		if err != nil || p.EOL {
			continue
		}
		return p.SKU, true
	}
	return "", false
}

func configurationFinding(roomID string, err error) findings.Finding {
	var cfgErr *rules.ConfigurationError
	if errors.As(err, &cfgErr) {
		return findings.New(findings.KindWarning, findings.CodeRuleConfiguration, roomID,
			fmt.Sprintf("Feature %q needs a %s, but the catalog has no current product for it.", cfgErr.Feature, cfgErr.Requirement))
	}
	return findings.New(findings.KindWarning, findings.CodeRuleConfiguration, roomID, err.Error())
}

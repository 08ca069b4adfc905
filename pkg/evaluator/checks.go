package evaluator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/rules"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/tiers"
)

type roomCheck func(rc *roomContext) []findings.Finding

var roomChecks = []roomCheck{
	checkEndOfLife,
	checkUnknownSku,
	checkUnpairedTransmitters,
	checkSeriesMix,
	checkLongHDMIRuns,
	checkVCHardware,
	checkBYOMInput,
	checkGoldAudio,
	checkMultiview,
	checkTierCategoryFit,
}

func checkEndOfLife(rc *roomContext) []findings.Finding {
	var out []findings.Finding
	for _, p := range rc.products {
		if !p.EOL {
			continue
		}
		out = append(out, findings.New(findings.KindWarning, findings.CodeEndOfLife, rc.room.ID,
			fmt.Sprintf("%s (%s) is end-of-life and should be replaced with a current product.", p.SKU, p.Name),
			p.SKU))
	}
	return out
}

// checkUnknownSku warns once per room for every SKU the catalog lacks,
// whether it is an equipment line or a compatibleReceivers or kitContents
// reference of a product in the room.
func checkUnknownSku(rc *roomContext) []findings.Finding {
	var out []findings.Finding
	seen := make(map[string]bool)
	for _, sku := range rc.unknown {
		if key := catalog.NormalizeSKU(sku); !seen[key] {
			seen[key] = true
			out = append(out, findings.New(findings.KindWarning, findings.CodeUnknownSku, rc.room.ID,
				fmt.Sprintf("%s is not in the product catalog; it was not checked for compatibility.", sku),
				sku))
		}
	}
	for _, p := range rc.products {
		for _, ref := range slices.Concat(p.CompatibleReceivers, p.KitContents) {
			key := catalog.NormalizeSKU(ref)
			if seen[key] || rc.snap.Contains(ref) {
				continue
			}
			seen[key] = true
			out = append(out, findings.New(findings.KindWarning, findings.CodeUnknownSku, rc.room.ID,
				fmt.Sprintf("%s references %s, which is not in the product catalog.", p.SKU, ref),
				ref, p.SKU))
		}
	}
	return out
}

// checkUnpairedTransmitters warns for every non-kit transmitter with no
// compatible receiver in the room. A transmitter declaring no compatible
// receivers at all can never be paired.
func checkUnpairedTransmitters(rc *roomContext) []findings.Finding {
	var out []findings.Finding
	for _, p := range rc.products {
		if !p.IsTransmitter() || p.IsKit() {
			continue
		}
		if slices.ContainsFunc(p.CompatibleReceivers, rc.has) {
			continue
		}
		known := slices.DeleteFunc(slices.Clone(p.CompatibleReceivers), func(sku string) bool {
			return !rc.snap.Contains(sku)
		})
		msg := fmt.Sprintf("%s has no compatible receiver in this room.", p.SKU)
		if len(known) > 0 {
			msg = fmt.Sprintf("%s has no compatible receiver in this room; add one of %s.",
				p.SKU, strings.Join(known, ", "))
		}
		out = append(out, findings.New(findings.KindWarning, findings.CodeUnpairedTransmitter, rc.room.ID, msg, p.SKU))
	}
	return out
}

// checkSeriesMix emits at most one Warning per room.
func checkSeriesMix(rc *roomContext) []findings.Finding {
	series, skus := rc.series()
	if len(series) < 2 {
		return nil
	}
	return []findings.Finding{findings.New(findings.KindWarning, findings.CodeSeriesMix, rc.room.ID,
		fmt.Sprintf("AVoIP series %s are mixed in this room; products of different series cannot interoperate.", joinSeries(series)),
		skus...)}
}

// series returns the distinct AVoIP series in the room, ascending, and the
// SKUs that carry one, in line order.
func (rc *roomContext) series() ([]int, []string) {
	var series []int
	var skus []string
	for _, p := range rc.products {
		s := p.Series()
		if s == 0 {
			continue
		}
		skus = append(skus, p.SKU)
		if !slices.Contains(series, s) {
			series = append(series, s)
		}
	}
	slices.Sort(series)
	return series, skus
}

func joinSeries(series []int) string {
	parts := make([]string, len(series))
	for i, s := range series {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, " and ")
}

func checkLongHDMIRuns(rc *roomContext) []findings.Finding {
	limit := rc.ev.opts.LongRunThreshold
	var out []findings.Finding
	for _, io := range rc.room.IORequirements {
		if !strings.EqualFold(io.ConnectionType, design.ConnectionHDMI) {
			continue
		}
		d := io.DistanceMeters()
		if d <= limit {
			continue
		}
		out = append(out, findings.New(findings.KindSuggestion, findings.CodeLongHDMIRun, rc.room.ID,
			fmt.Sprintf("HDMI run %q is %s, beyond the %s passive limit; use an HDBaseT or AVoIP extender.",
				io.Name, d.Format(rc.units), limit.Format(rc.units))))
	}
	return out
}

func checkVCHardware(rc *roomContext) []findings.Finding {
	if !rc.room.HasFeature(design.FeatureVideoConferencing) {
		return nil
	}
	missing := rc.missingRequirements(design.FeatureVideoConferencing)
	if len(missing) == 0 {
		return nil
	}
	return []findings.Finding{findings.New(findings.KindWarning, findings.CodeMissingVCHardware, rc.room.ID,
		fmt.Sprintf("Video conferencing is required but no %s is specified.", strings.Join(missing, " or ")))}
}

// checkBYOMInput is satisfied by a declared USB-C input point or by resolved
// products meeting the BYOM rule requirements.
func checkBYOMInput(rc *roomContext) []findings.Finding {
	if !rc.room.HasFeature(design.FeatureBYOM) {
		return nil
	}
	for _, io := range rc.room.IORequirements {
		if io.Type != design.IOOutput && strings.EqualFold(io.ConnectionType, design.ConnectionUSBC) {
			return nil
		}
	}
	if len(rc.missingRequirements(design.FeatureBYOM)) == 0 {
		return nil
	}
	return []findings.Finding{findings.New(findings.KindWarning, findings.CodeMissingBYOMInput, rc.room.ID,
		"BYOM is required but the room has no USB-C input for a guest laptop.")}
}

func checkGoldAudio(rc *roomContext) []findings.Finding {
	tier := tiers.Get(rc.room.DesignTier)
	if tier == nil || !tier.ExpectsAdvancedAudio || rc.anyMatch(rules.ExprDSP) {
		return nil
	}
	var related []string
	if p, ok := rc.firstCurrent(rules.ExprDSP); ok {
		related = append(related, p.SKU)
	}
	return []findings.Finding{findings.New(findings.KindOpportunity, findings.CodeGoldAudioProcessing, rc.room.ID,
		fmt.Sprintf("%s rooms normally include audio processing; consider adding a DSP.", tier.Name),
		related...)}
}

// checkMultiview requires a natively multiview decoder or a multiview
// processor. Decoders that need a processor are named in the finding.
func checkMultiview(rc *roomContext) []findings.Finding {
	if !rc.room.HasFeature(design.FeatureMultiview) || rc.anyMatch(rules.ExprMultiview) {
		return nil
	}
	var related []string
	for _, p := range rc.products {
		if p.MultiviewMode() == catalog.MultiviewRequiresSwitcher {
			related = append(related, p.SKU)
		}
	}
	msg := "Multiview is required but no product in the room supports it."
	if len(related) > 0 {
		msg = fmt.Sprintf("Multiview is required; %s need a multiview processor.", strings.Join(related, ", "))
	}
	return []findings.Finding{findings.New(findings.KindWarning, findings.CodeMultiviewSupport, rc.room.ID, msg, related...)}
}

// checkTierCategoryFit emits one Suggestion per room naming products whose
// category over-specifies the room's tier.
func checkTierCategoryFit(rc *roomContext) []findings.Finding {
	tier := tiers.Get(rc.room.DesignTier)
	if tier == nil {
		return nil
	}
	var skus []string
	var categories []string
	var fits *tiers.Tier
	for _, p := range rc.products {
		if !tier.Discourages(p.Category) {
			continue
		}
		skus = append(skus, p.SKU)
		if !slices.Contains(categories, string(p.Category)) {
			categories = append(categories, string(p.Category))
		}
		if lowest := tiers.Lowest(p.Category); lowest != nil && (fits == nil || lowest.Rank > fits.Rank) {
			fits = lowest
		}
	}
	if len(skus) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%s equipment is unusual for a %s room; review the tier or the selection.",
		strings.Join(categories, "/"), tier.Name)
	if fits != nil {
		msg = fmt.Sprintf("%s equipment is unusual for a %s room; it fits a %s design. Review the tier or the selection.",
			strings.Join(categories, "/"), tier.Name, fits.Name)
	}
	return []findings.Finding{findings.New(findings.KindSuggestion, findings.CodeTierCategoryFit, rc.room.ID,
		msg, skus...)}
}

// missingRequirements names the requirements of feature's rules that no
// product in the room satisfies. The resolver fills the same requirements,
// so a resolved room has none missing unless the catalog lacks a candidate.
func (rc *roomContext) missingRequirements(feature string) []string {
	var missing []string
	for _, rule := range rc.ev.rules.ForFeature(feature) {
		for _, req := range rule.Requirements {
			if !rc.ev.rules.Satisfied(req, rc.products) && !slices.Contains(missing, req.Name) {
				missing = append(missing, req.Name)
			}
		}
	}
	return missing
}

// firstCurrent returns the first non-EOL catalog product matching expr.
func (rc *roomContext) firstCurrent(expr string) (catalog.Product, bool) {
	for _, p := range rc.snap.Products() {
		if !p.EOL && rc.ev.match(expr, p) {
			return p, true
		}
	}
	return catalog.Product{}, false
}

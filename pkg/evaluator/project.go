package evaluator

import (
	"fmt"
	"math"
	"slices"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/finance"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
)

type projectCheck func(pc *projectContext) []findings.Finding

var projectChecks = []projectCheck{
	checkScale,
	checkCrossRoomSeries,
	checkEquipmentCost,
}

func checkScale(pc *projectContext) []findings.Finding {
	limit := pc.ev.opts.ScaleThreshold
	if len(pc.project.Rooms) <= limit {
		return nil
	}
	return []findings.Finding{findings.New(findings.KindInsight, findings.CodeAVoIPBackbone, findings.ProjectScope,
		fmt.Sprintf("With %d rooms, consider an AVoIP backbone instead of separate point-to-point systems.",
			len(pc.project.Rooms)))}
}

// checkCrossRoomSeries reports rooms that use different AVoIP series from
// each other. Rooms that mix series internally already carry a Warning.
func checkCrossRoomSeries(pc *projectContext) []findings.Finding {
	policy := pc.ev.opts.CrossRoomSeries
	if policy == SeriesIgnore {
		return nil
	}

	var all []int
	var skus []string
	rooms := 0
	for _, rc := range pc.rooms {
		series, roomSkus := rc.series()
		if len(series) == 0 {
			continue
		}
		rooms++
		for _, s := range series {
			if !slices.Contains(all, s) {
				all = append(all, s)
			}
		}
		for _, sku := range roomSkus {
			if !slices.Contains(skus, sku) {
				skus = append(skus, sku)
			}
		}
	}
	if rooms < 2 || len(all) < 2 || !roomsDiffer(pc.rooms) {
		return nil
	}
	slices.Sort(all)

	if policy == SeriesWarn {
		return []findings.Finding{findings.New(findings.KindWarning, findings.CodeSeriesIsolation, findings.ProjectScope,
			fmt.Sprintf("Rooms in this project use AVoIP series %s, which cannot share a network.", joinSeries(all)),
			skus...)}
	}
	return []findings.Finding{findings.New(findings.KindInsight, findings.CodeSeriesIsolation, findings.ProjectScope,
		fmt.Sprintf("Rooms use AVoIP series %s; keep each series on an isolated network or VLAN.", joinSeries(all)),
		skus...)}
}

// roomsDiffer reports whether two rooms carry different series sets.
func roomsDiffer(rooms []*roomContext) bool {
	var first []int
	seen := false
	for _, rc := range rooms {
		series, _ := rc.series()
		if len(series) == 0 {
			continue
		}
		if !seen {
			first, seen = series, true
			continue
		}
		if !slices.Equal(first, series) {
			return true
		}
	}
	return false
}

// checkEquipmentCost totals dealer and list price over every known product
// and estimates labour from the catalog's installation tasks.
func checkEquipmentCost(pc *projectContext) []findings.Finding {
	totals := finance.NewTotals(pc.ev.opts.Currency)
	var hours float64
	for _, rc := range pc.rooms {
		for _, p := range rc.products {
			qty := rc.qty[p.SKU]
			if err := totals.AddLine(p.DealerPrice, p.MSRP, qty); err != nil {
				pc.ev.logger.Warn("price total failed", "sku", p.SKU, "error", err)
				continue
			}
			for _, t := range pc.snap.TasksFor(p) {
				hours += t.Hours * float64(qty)
			}
		}
	}
	if totals.MSRP.IsZero() && totals.Dealer.IsZero() {
		return nil
	}
	bps := totals.MarginBasisPoints()
	msg := fmt.Sprintf("Equipment: dealer %s, MSRP %s, margin %s (%d.%02d%%).",
		totals.Dealer, totals.MSRP, totals.Margin(), bps/100, abs(bps%100))
	if hours > 0 {
		msg += fmt.Sprintf(" Estimated installation: %.1f hours.", math.Round(hours*10)/10)
	}
	return []findings.Finding{findings.New(findings.KindFinancial, findings.CodeEquipmentCost, findings.ProjectScope, msg)}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

package resolver

import (
	"slices"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

// Merge combines lines sharing a SKU, summing quantities. The merged line
// is resolver-generated only when every contributing line was; any user
// contribution keeps it visible as a user entry. Order of first occurrence
// is preserved.
func Merge(lines []design.EquipmentLine) []design.EquipmentLine {
	out := make([]design.EquipmentLine, 0, len(lines))
	pos := make(map[string]int, len(lines))
	for _, l := range lines {
		l.SKU = catalog.NormalizeSKU(l.SKU)
		if i, ok := pos[l.SKU]; ok {
			out[i].Quantity += l.Quantity
			out[i].IsAIGenerated = out[i].IsAIGenerated && l.IsAIGenerated
			continue
		}
		pos[l.SKU] = len(out)
		out = append(out, l)
	}
	return out
}

// lineSet is the working list during a resolve pass.
type lineSet struct {
	lines []design.EquipmentLine
	skus  map[string]bool
}

func newLineSet(baseline []design.EquipmentLine) *lineSet {
	s := &lineSet{skus: make(map[string]bool, len(baseline))}
	for _, l := range baseline {
		s.add(l)
	}
	return s
}

func (s *lineSet) add(l design.EquipmentLine) {
	l.SKU = catalog.NormalizeSKU(l.SKU)
	s.lines = append(s.lines, l)
	s.skus[l.SKU] = true
}

func (s *lineSet) hasAny(skus []string) bool {
	for _, sku := range skus {
		if s.skus[catalog.NormalizeSKU(sku)] {
			return true
		}
	}
	return false
}

func (s *lineSet) snapshot() []design.EquipmentLine {
	return slices.Clone(s.lines)
}

// products returns the catalog products behind the current lines. Unknown
// SKUs are skipped; the evaluator reports them.
func (s *lineSet) products(snap *catalog.Snapshot) []catalog.Product {
	out := make([]catalog.Product, 0, len(s.lines))
	for _, l := range s.lines {
		if p, err := snap.FindBySku(l.SKU); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// delta compares the input equipment with the resolved lines.
func delta(input, resolved []design.EquipmentLine) (added, removed []design.EquipmentLine) {
	userQty := make(map[string]int)
	aiQty := make(map[string]int)
	var aiOrder []string
	for _, l := range input {
		sku := catalog.NormalizeSKU(l.SKU)
		if l.IsAIGenerated {
			if _, seen := aiQty[sku]; !seen {
				aiOrder = append(aiOrder, sku)
			}
			aiQty[sku] += l.Quantity
		} else {
			userQty[sku] += l.Quantity
		}
	}

	added = []design.EquipmentLine{}
	resolvedQty := make(map[string]int, len(resolved))
	for _, l := range resolved {
		resolvedQty[l.SKU] = l.Quantity
		if extra := l.Quantity - userQty[l.SKU]; extra > 0 {
			added = append(added, design.EquipmentLine{SKU: l.SKU, Quantity: extra, IsAIGenerated: true})
		}
	}

	removed = []design.EquipmentLine{}
	for _, sku := range aiOrder {
		kept := resolvedQty[sku] - userQty[sku]
		if kept < 0 {
			kept = 0
		}
		if gone := aiQty[sku] - kept; gone > 0 {
			removed = append(removed, design.EquipmentLine{SKU: sku, Quantity: gone, IsAIGenerated: true})
		}
	}
	return added, removed
}

func cloneLines(lines []design.EquipmentLine) []design.EquipmentLine {
	return slices.Clone(lines)
}

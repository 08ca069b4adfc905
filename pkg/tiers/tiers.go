// Package tiers defines the Bronze/Silver/Gold design tiers and what each
// implies for product selection.
package tiers

import (
	"slices"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

// Tier describes a design ambition level.
type Tier struct {
	ID          design.Tier
	Name        string
	Description string
	// Discouraged lists categories that over-specify a room at this tier.
	Discouraged []catalog.Category
	// ExpectsAdvancedAudio marks tiers where a DSP is part of the standard design.
	ExpectsAdvancedAudio bool
	// Rank orders tiers; higher is more ambitious.
	Rank int
}

// All available tiers
var (
	Bronze = Tier{
		ID:          design.TierBronze,
		Name:        "Bronze",
		Description: "Cost-focused, point-to-point presentation",
		Discouraged: []catalog.Category{catalog.CategoryAVoIP, catalog.CategoryMatrix},
		Rank:        1,
	}

	Silver = Tier{
		ID:          design.TierSilver,
		Name:        "Silver",
		Description: "Switched presentation with conferencing",
		Discouraged: []catalog.Category{catalog.CategoryAVoIP},
		Rank:        2,
	}

	Gold = Tier{
		ID:                   design.TierGold,
		Name:                 "Gold",
		Description:          "Networked distribution with processed audio",
		ExpectsAdvancedAudio: true,
		Rank:                 3,
	}

	// AllTiers contains all available tiers
	AllTiers = map[design.Tier]Tier{
		design.TierBronze: Bronze,
		design.TierSilver: Silver,
		design.TierGold:   Gold,
	}
)

// Get returns a tier by ID, or nil if not found.
func Get(id design.Tier) *Tier {
	tier, ok := AllTiers[id]
	if !ok {
		return nil
	}
	return &tier
}

// Discourages reports whether category over-specifies a room at this tier.
func (t *Tier) Discourages(category catalog.Category) bool {
	return slices.Contains(t.Discouraged, category)
}

// Lowest returns the lowest tier that does not discourage category.
func Lowest(category catalog.Category) *Tier {
	for _, t := range []Tier{Bronze, Silver, Gold} {
		if !t.Discourages(category) {
			return &t
		}
	}
	return nil
}

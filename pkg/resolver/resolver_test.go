package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog/catalogtest"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/rules"
)

func user(sku string, qty int) design.EquipmentLine {
	return design.EquipmentLine{SKU: sku, Quantity: qty}
}

func ai(sku string, qty int) design.EquipmentLine {
	return design.EquipmentLine{SKU: sku, Quantity: qty, IsAIGenerated: true}
}

func TestResolve_VideoConferencingAddsCameraAndMic(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	room := design.RoomConfiguration{
		ID:       "huddle",
		Features: []design.Feature{{Name: design.FeatureVideoConferencing, Priority: design.PriorityMustHave}},
	}
	res := r.Resolve(room, snap)

	assert.Equal(t, []design.EquipmentLine{ai("CAM-210-PTZ", 1), ai("MIC-100-CEIL", 1)}, res.Lines)
	assert.Equal(t, res.Lines, res.Added)
	assert.Empty(t, res.Removed)
	assert.Empty(t, res.Findings)
}

func TestResolve_ExistingCapabilitySatisfiesFeature(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	room := design.RoomConfiguration{
		ID:                     "board",
		Features:               []design.Feature{{Name: design.FeatureBYOM}, {Name: design.FeatureKVMControl}},
		ManuallyAddedEquipment: []design.EquipmentLine{user("APO-210-UC", 1)},
	}
	res := r.Resolve(room, snap)

	assert.Equal(t, []design.EquipmentLine{user("APO-210-UC", 1), ai("SW-0401-KVM", 1)}, res.Lines)
	assert.Equal(t, []design.EquipmentLine{ai("SW-0401-KVM", 1)}, res.Added)
}

func TestResolve_PairsFirstCurrentReceiver(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	room := design.RoomConfiguration{
		ID:                     "class",
		ManuallyAddedEquipment: []design.EquipmentLine{user("EX-70-G2-TX", 2)},
	}
	res := r.Resolve(room, snap)

	// EX-70-RX-OLD is listed first but is EOL.
	assert.Equal(t, []design.EquipmentLine{user("EX-70-G2-TX", 2), ai("EX-70-G2-RX", 2)}, res.Lines)
}

func TestResolve_ExistingReceiverSatisfiesPairing(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	room := design.RoomConfiguration{
		ID: "class",
		ManuallyAddedEquipment: []design.EquipmentLine{
			user("EX-70-G2-TX", 1),
			user("EX-70-RX-OLD", 1),
		},
	}
	res := r.Resolve(room, snap)

	assert.Equal(t, room.ManuallyAddedEquipment, res.Lines)
	assert.Empty(t, res.Added)
}

func TestResolve_KitAndEmptyReceiverListAreNotPaired(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	room := design.RoomConfiguration{
		ID: "lab",
		ManuallyAddedEquipment: []design.EquipmentLine{
			user("MX-0403-H3-MST", 1),
			user("EX-100-G2", 1),
		},
	}
	res := r.Resolve(room, snap)

	assert.Equal(t, room.ManuallyAddedEquipment, res.Lines)
	assert.Empty(t, res.Findings)
}

func TestResolve_PairsReceiverForResolverAddedTransmitter(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	rs, err := rules.NewSet([]rules.Rule{{
		ID:      "distribution",
		Feature: "Video Distribution",
		Requirements: []rules.Requirement{
			{Name: "encoder", Expression: `product.transmitter && product.series == 400`},
		},
	}})
	require.NoError(t, err)
	r := New(rs)

	room := design.RoomConfiguration{ID: "atrium", Features: []design.Feature{{Name: "Video Distribution"}}}
	res := r.Resolve(room, snap)

	assert.Equal(t, []design.EquipmentLine{ai("NHD-400-TX", 1), ai("NHD-400-RX", 1)}, res.Lines)
}

func TestResolve_RuleWithoutCandidateIsWarning(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	rs, err := rules.NewSet([]rules.Rule{{
		ID:           "lighting",
		Feature:      "Lighting Control",
		Requirements: []rules.Requirement{{Name: "dimmer", Expression: `"dimmer" in product.tags`}},
	}})
	require.NoError(t, err)
	r := New(rs)

	room := design.RoomConfiguration{ID: "r1", Features: []design.Feature{{Name: "Lighting Control"}}}
	res := r.Resolve(room, snap)

	assert.Empty(t, res.Lines)
	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, findings.KindWarning, f.Kind)
	assert.Equal(t, findings.CodeRuleConfiguration, f.Code)
	assert.Equal(t, "r1", f.RoomID)
	assert.Contains(t, f.Message, "dimmer")
}

func TestResolve_UnknownUserSkuIsKept(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	room := design.RoomConfiguration{
		ID:                     "r1",
		ManuallyAddedEquipment: []design.EquipmentLine{user("GHOST-1", 3)},
	}
	res := r.Resolve(room, snap)
	assert.Equal(t, []design.EquipmentLine{user("GHOST-1", 3)}, res.Lines)
}

func TestResolve_DiscardsStaleAIEntries(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	// The room used to need a camera; the feature has since been removed.
	room := design.RoomConfiguration{
		ID: "r1",
		ManuallyAddedEquipment: []design.EquipmentLine{
			user("APO-210-UC", 1),
			ai("CAM-210-PTZ", 1),
		},
	}
	res := r.Resolve(room, snap)

	assert.Equal(t, []design.EquipmentLine{user("APO-210-UC", 1)}, res.Lines)
	assert.Equal(t, []design.EquipmentLine{ai("CAM-210-PTZ", 1)}, res.Removed)
	assert.Empty(t, res.Added)
}

func TestResolve_MergesDuplicates(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	room := design.RoomConfiguration{
		ID: "r1",
		ManuallyAddedEquipment: []design.EquipmentLine{
			user("DSP-88-PRO", 1),
			user("dsp-88-pro", 2),
		},
	}
	res := r.Resolve(room, snap)
	assert.Equal(t, []design.EquipmentLine{user("DSP-88-PRO", 3)}, res.Lines)
}

func TestResolve_Idempotent(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	r := New(rules.Default())

	room := design.RoomConfiguration{
		ID: "r1",
		Features: []design.Feature{
			{Name: design.FeatureVideoConferencing},
			{Name: design.FeatureBYOM},
		},
		ManuallyAddedEquipment: []design.EquipmentLine{user("EX-70-G2-TX", 1), user("NHD-500-TX", 2)},
	}

	first, res1 := r.Revert(room, snap)
	second, res2 := r.Revert(first, snap)

	assert.Equal(t, res1.Lines, res2.Lines)
	assert.Equal(t, first.ManuallyAddedEquipment, second.ManuallyAddedEquipment)
	assert.Equal(t, res1.Added, res2.Added)
	assert.Empty(t, res2.Removed)
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []design.EquipmentLine
		want []design.EquipmentLine
	}{
		{"empty", nil, []design.EquipmentLine{}},
		{"all ai", []design.EquipmentLine{ai("A", 1), ai("A", 2)}, []design.EquipmentLine{ai("A", 3)}},
		{"user wins flag", []design.EquipmentLine{ai("A", 1), user("A", 2)}, []design.EquipmentLine{user("A", 3)}},
		{"order kept", []design.EquipmentLine{user("B", 1), user("A", 1), user("B", 1)}, []design.EquipmentLine{user("B", 2), user("A", 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.in))
		})
	}
}

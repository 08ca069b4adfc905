package evaluator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog/catalogtest"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/resolver"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/rules"
)

func line(sku string, qty int) design.EquipmentLine {
	return design.EquipmentLine{SKU: sku, Quantity: qty}
}

func room(id string, lines ...design.EquipmentLine) design.RoomConfiguration {
	return design.RoomConfiguration{ID: id, ManuallyAddedEquipment: lines}
}

func project(rooms ...design.RoomConfiguration) design.ProjectConfiguration {
	return design.ProjectConfiguration{ProjectID: "p1", Rooms: rooms}
}

func evaluate(t *testing.T, opts Options, p design.ProjectConfiguration) findings.List {
	t.Helper()
	return New(rules.Default(), opts).Evaluate(p, nil, catalogtest.Snapshot(t))
}

func TestUnpairedTransmitter_KitExempt(t *testing.T) {
	out := evaluate(t, Options{}, project(room("r1", line("MX-0403-H3-MST", 1))))
	assert.Empty(t, out.ByCode(findings.CodeUnpairedTransmitter))
}

func TestUnpairedTransmitter_EmptyCompatibleList(t *testing.T) {
	out := evaluate(t, Options{}, project(room("r1", line("EX-100-G2", 1))))

	unpaired := out.ByCode(findings.CodeUnpairedTransmitter)
	require.Len(t, unpaired, 1)
	assert.Equal(t, findings.KindWarning, unpaired[0].Kind)
	assert.Equal(t, "r1", unpaired[0].RoomID)
	assert.Equal(t, []string{"EX-100-G2"}, unpaired[0].RelatedSkus)
}

func TestUnpairedTransmitter_PairedOrNot(t *testing.T) {
	paired := evaluate(t, Options{}, project(room("r1", line("EX-70-G2-TX", 1), line("EX-70-G2-RX", 1))))
	assert.Empty(t, paired.ByCode(findings.CodeUnpairedTransmitter))

	alone := evaluate(t, Options{}, project(room("r1", line("NHD-400-TX", 1))))
	unpaired := alone.ByCode(findings.CodeUnpairedTransmitter)
	require.Len(t, unpaired, 1)
	assert.Contains(t, unpaired[0].Message, "NHD-400-RX")
}

func TestEndOfLifeAndUnknownSku(t *testing.T) {
	out := evaluate(t, Options{}, project(room("r1",
		line("CAM-100-LEGACY", 1), line("ghost-1", 2), line("cam-100-legacy", 1))))

	eol := out.ByCode(findings.CodeEndOfLife)
	require.Len(t, eol, 1, "duplicate lines merge before checking")
	assert.Equal(t, []string{"CAM-100-LEGACY"}, eol[0].RelatedSkus)

	unknown := out.ByCode(findings.CodeUnknownSku)
	require.Len(t, unknown, 1)
	assert.Equal(t, findings.KindWarning, unknown[0].Kind)
	assert.Equal(t, []string{"GHOST-1"}, unknown[0].RelatedSkus)
}

func TestSeriesMix_OneWarningPerRoom(t *testing.T) {
	out := evaluate(t, Options{}, project(room("r1",
		line("NHD-400-TX", 1), line("NHD-400-RX", 1),
		line("NHD-500-TX", 1), line("NHD-500-RX", 1))))

	mix := out.ByCode(findings.CodeSeriesMix)
	require.Len(t, mix, 1)
	assert.Equal(t, findings.KindWarning, mix[0].Kind)
	assert.Equal(t, []string{"NHD-400-TX", "NHD-400-RX", "NHD-500-TX", "NHD-500-RX"}, mix[0].RelatedSkus)
	assert.Contains(t, mix[0].Message, "400 and 500")
}

func TestCrossRoomSeriesPolicy(t *testing.T) {
	p := project(
		room("r1", line("NHD-400-TX", 1), line("NHD-400-RX", 1)),
		room("r2", line("NHD-500-TX", 1), line("NHD-500-RX", 1)),
	)

	tests := []struct {
		policy SeriesPolicy
		kind   findings.Kind
		want   int
	}{
		{SeriesNote, findings.KindInsight, 1},
		{SeriesWarn, findings.KindWarning, 1},
		{SeriesIgnore, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			out := evaluate(t, Options{CrossRoomSeries: tt.policy}, p)
			assert.Empty(t, out.ByCode(findings.CodeSeriesMix))

			iso := out.ByCode(findings.CodeSeriesIsolation)
			require.Len(t, iso, tt.want)
			if tt.want > 0 {
				assert.Equal(t, tt.kind, iso[0].Kind)
				assert.True(t, iso[0].IsProjectScope())
			}
		})
	}
}

func TestCrossRoomSeries_SameSeriesEverywhere(t *testing.T) {
	out := evaluate(t, Options{}, project(
		room("r1", line("NHD-400-TX", 1), line("NHD-400-RX", 1)),
		room("r2", line("NHD-400-RX", 2)),
	))
	assert.Empty(t, out.ByCode(findings.CodeSeriesIsolation))
}

func TestLongHDMIRun(t *testing.T) {
	hdmi := func(d float64, unit design.LengthUnit) design.RoomConfiguration {
		r := room("r1")
		r.IORequirements = []design.IORequirement{{
			Name: "Lectern", Type: design.IOInput, ConnectionType: "HDMI", Distance: d, DistanceUnit: unit,
		}}
		return r
	}

	long := evaluate(t, Options{}, project(hdmi(12, design.UnitMeters)))
	runs := long.ByCode(findings.CodeLongHDMIRun)
	require.Len(t, runs, 1)
	assert.Equal(t, findings.KindSuggestion, runs[0].Kind)
	assert.Contains(t, runs[0].Message, "12m")

	assert.Empty(t, evaluate(t, Options{}, project(hdmi(9, design.UnitMeters))).ByCode(findings.CodeLongHDMIRun))
	assert.Empty(t, evaluate(t, Options{}, project(hdmi(10, design.UnitMeters))).ByCode(findings.CodeLongHDMIRun))
	assert.Empty(t, evaluate(t, Options{}, project(hdmi(30, design.UnitFeet))).ByCode(findings.CodeLongHDMIRun))

	imperial := project(hdmi(40, design.UnitFeet))
	imperial.UnitSystem = design.UnitSystemImperial
	runs = evaluate(t, Options{}, imperial).ByCode(findings.CodeLongHDMIRun)
	require.Len(t, runs, 1)
	assert.Contains(t, runs[0].Message, "40ft")
	assert.Contains(t, runs[0].Message, "33ft")
}

func TestLongHDMIRun_OnePerPoint(t *testing.T) {
	r := room("r1")
	r.IORequirements = []design.IORequirement{
		{Name: "Wall plate", ConnectionType: "HDMI", Distance: 15},
		{Name: "Ceiling", ConnectionType: "hdmi", Distance: 11},
		{Name: "Network", ConnectionType: "RJ45", Distance: 80},
	}
	assert.Len(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeLongHDMIRun), 2)
}

func TestLongHDMIRun_CustomThreshold(t *testing.T) {
	r := room("r1")
	r.IORequirements = []design.IORequirement{{Name: "Desk", ConnectionType: "HDMI", Distance: 6}}
	assert.Len(t, evaluate(t, Options{LongRunThreshold: 5}, project(r)).ByCode(findings.CodeLongHDMIRun), 1)
}

func TestUnknownSku_CatalogReferences(t *testing.T) {
	snap, err := catalog.Parse([]byte(`{"version": "1.0.0", "products": [
		{"sku": "TX-1", "name": "Transmitter", "category": "HDBaseT", "tags": ["transmitter"],
		 "dealerPrice": 100, "msrp": 150, "compatibleReceivers": ["RX-GHOST", "RX-1"]},
		{"sku": "TX-2", "name": "Transmitter", "category": "HDBaseT", "tags": ["transmitter"],
		 "dealerPrice": 100, "msrp": 150, "compatibleReceivers": ["RX-GHOST"]},
		{"sku": "RX-1", "name": "Receiver", "category": "HDBaseT", "tags": ["receiver"],
		 "dealerPrice": 90, "msrp": 130},
		{"sku": "KIT-1", "name": "Kit", "category": "Matrix", "tags": ["kit"],
		 "dealerPrice": 500, "msrp": 700, "kitContents": ["RX-GHOST2", "RX-1"]}
	]}`))
	require.NoError(t, err)

	p := project(room("r1", line("TX-1", 1), line("TX-2", 1), line("KIT-1", 1)), room("r2", line("TX-2", 1)))
	out := New(rules.Default(), Options{}).Evaluate(p, nil, snap)

	r1 := out.ByRoom("r1").ByCode(findings.CodeUnknownSku)
	require.Len(t, r1, 2, "one warning per missing sku per room")
	assert.Equal(t, []string{"RX-GHOST", "TX-1"}, r1[0].RelatedSkus)
	assert.Equal(t, findings.KindWarning, r1[0].Kind)
	assert.Equal(t, []string{"RX-GHOST2", "KIT-1"}, r1[1].RelatedSkus)
	assert.Len(t, out.ByRoom("r2").ByCode(findings.CodeUnknownSku), 1)

	// Missing receivers are never suggested.
	unpaired := out.ByRoom("r1").ByCode(findings.CodeUnpairedTransmitter)
	require.Len(t, unpaired, 2)
	for _, f := range unpaired {
		assert.NotContains(t, f.Message, "RX-GHOST")
	}
	assert.Contains(t, unpaired[0].Message, "add one of RX-1")
}

func TestFeatureChecksFollowRuleSet(t *testing.T) {
	// A bundle replaces the built-in VC rule with a DSP-based audio requirement.
	rs, err := rules.NewSet(rules.Merge(rules.DefaultRules(), &rules.Bundle{Rules: []rules.Rule{{
		ID:      "vc-hardware",
		Feature: design.FeatureVideoConferencing,
		Requirements: []rules.Requirement{
			{Name: "camera", Expression: rules.ExprCamera},
			{Name: "audio processor", Expression: rules.ExprDSP},
		},
	}}}))
	require.NoError(t, err)
	snap := catalogtest.Snapshot(t)

	r := room("r1")
	r.Features = []design.Feature{{Name: design.FeatureVideoConferencing}}
	res := resolver.New(rs).Resolve(r, snap)
	assert.Contains(t, res.Lines, design.EquipmentLine{SKU: "DSP-88-PRO", Quantity: 1, IsAIGenerated: true})

	ev := New(rs, Options{})
	out := ev.Evaluate(project(r), map[string][]design.EquipmentLine{r.ID: res.Lines}, snap)
	assert.Empty(t, out.ByCode(findings.CodeMissingVCHardware))

	missing := ev.Evaluate(project(r), nil, snap).ByCode(findings.CodeMissingVCHardware)
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0].Message, "camera or audio processor")
}

func TestMissingVCHardware(t *testing.T) {
	vc := []design.Feature{{Name: design.FeatureVideoConferencing}}

	r := room("r1", line("CAM-210-PTZ", 1))
	r.Features = vc
	missing := evaluate(t, Options{}, project(r)).ByCode(findings.CodeMissingVCHardware)
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0].Message, "microphone")

	r = room("r1", line("CAM-210-PTZ", 1), line("MIC-100-CEIL", 1))
	r.Features = vc
	assert.Empty(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeMissingVCHardware))
}

func TestVCResolvedLeavesNoWarning(t *testing.T) {
	snap := catalogtest.Snapshot(t)
	rs := rules.Default()

	r := room("huddle")
	r.Features = []design.Feature{{Name: design.FeatureVideoConferencing, Priority: design.PriorityMustHave}}
	res := resolver.New(rs).Resolve(r, snap)

	out := New(rs, Options{}).Evaluate(project(r), map[string][]design.EquipmentLine{r.ID: res.Lines}, snap)
	assert.Empty(t, out.ByCode(findings.CodeMissingVCHardware))

	unresolved := New(rs, Options{}).Evaluate(project(r), nil, snap)
	assert.Len(t, unresolved.ByCode(findings.CodeMissingVCHardware), 1)
}

func TestMissingBYOMInput(t *testing.T) {
	byom := []design.Feature{{Name: design.FeatureBYOM}}

	r := room("r1")
	r.Features = byom
	assert.Len(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeMissingBYOMInput), 1)

	r.IORequirements = []design.IORequirement{{Name: "Table", Type: design.IOInput, ConnectionType: "USB-C", Distance: 2}}
	assert.Empty(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeMissingBYOMInput))

	r = room("r1", line("APO-210-UC", 1))
	r.Features = byom
	assert.Empty(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeMissingBYOMInput))
}

func TestGoldAudioOpportunity(t *testing.T) {
	r := room("r1", line("CAM-210-PTZ", 1))
	r.DesignTier = design.TierGold
	opp := evaluate(t, Options{}, project(r)).ByCode(findings.CodeGoldAudioProcessing)
	require.Len(t, opp, 1)
	assert.Equal(t, findings.KindOpportunity, opp[0].Kind)
	assert.Equal(t, []string{"DSP-88-PRO"}, opp[0].RelatedSkus)

	r.ManuallyAddedEquipment = append(r.ManuallyAddedEquipment, line("DSP-88-PRO", 1))
	assert.Empty(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeGoldAudioProcessing))

	r.DesignTier = design.TierSilver
	r.ManuallyAddedEquipment = r.ManuallyAddedEquipment[:1]
	assert.Empty(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeGoldAudioProcessing))
}

func TestMultiviewSupport(t *testing.T) {
	mv := []design.Feature{{Name: design.FeatureMultiview}}

	r := room("r1", line("NHD-400-TX", 1), line("NHD-400-RX", 1))
	r.Features = mv
	warn := evaluate(t, Options{}, project(r)).ByCode(findings.CodeMultiviewSupport)
	require.Len(t, warn, 1)
	assert.Equal(t, []string{"NHD-400-RX"}, warn[0].RelatedSkus)

	r.ManuallyAddedEquipment = append(r.ManuallyAddedEquipment, line("MV-SW-400", 1))
	assert.Empty(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeMultiviewSupport))

	r = room("r1", line("NHD-500-TX", 1), line("NHD-500-RX", 1))
	r.Features = mv
	assert.Empty(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeMultiviewSupport))
}

func TestTierCategoryFit(t *testing.T) {
	r := room("r1", line("NHD-400-TX", 1), line("NHD-400-RX", 1), line("CAM-210-PTZ", 1))
	r.DesignTier = design.TierBronze
	fit := evaluate(t, Options{}, project(r)).ByCode(findings.CodeTierCategoryFit)
	require.Len(t, fit, 1)
	assert.Equal(t, findings.KindSuggestion, fit[0].Kind)
	assert.Equal(t, []string{"NHD-400-TX", "NHD-400-RX"}, fit[0].RelatedSkus)
	assert.Contains(t, fit[0].Message, "Bronze")
	assert.Contains(t, fit[0].Message, "fits a Gold design")

	r = room("r1", line("MX-0403-H3-MST", 1), line("RX-H3-MST", 1))
	r.DesignTier = design.TierBronze
	fit = evaluate(t, Options{}, project(r)).ByCode(findings.CodeTierCategoryFit)
	require.Len(t, fit, 1)
	assert.Contains(t, fit[0].Message, "fits a Silver design")

	r.DesignTier = design.TierGold
	assert.Empty(t, evaluate(t, Options{}, project(r)).ByCode(findings.CodeTierCategoryFit))
}

func TestScaleInsight(t *testing.T) {
	rooms := func(n int) design.ProjectConfiguration {
		p := project()
		for i := range n {
			p.Rooms = append(p.Rooms, room(fmt.Sprintf("r%d", i+1)))
		}
		return p
	}

	five := evaluate(t, Options{}, rooms(5)).ByCode(findings.CodeAVoIPBackbone)
	require.Len(t, five, 1)
	assert.Equal(t, findings.KindInsight, five[0].Kind)
	assert.True(t, five[0].IsProjectScope())

	assert.Empty(t, evaluate(t, Options{}, rooms(4)).ByCode(findings.CodeAVoIPBackbone))
}

func TestEquipmentCost(t *testing.T) {
	out := evaluate(t, Options{}, project(
		room("r1", line("NHD-400-TX", 1), line("NHD-400-RX", 1)),
		room("r2", line("NHD-400-TX", 1), line("NHD-400-RX", 1)),
	))
	cost := out.ByCode(findings.CodeEquipmentCost)
	require.Len(t, cost, 1)
	assert.Equal(t, findings.KindFinancial, cost[0].Kind)
	assert.Equal(t,
		"Equipment: dealer 2760.00 USD, MSRP 3960.00 USD, margin 1200.00 USD (30.30%). Estimated installation: 12.0 hours.",
		cost[0].Message)

	assert.Empty(t, evaluate(t, Options{}, project(room("r1"))).ByCode(findings.CodeEquipmentCost))
}

func TestFindingsOrder(t *testing.T) {
	p := project(
		room("b", line("EX-100-G2", 1)),
		room("a", line("CAM-100-LEGACY", 1)),
	)
	out := evaluate(t, Options{}, p)
	require.NotEmpty(t, out)

	assert.True(t, out[0].IsProjectScope())
	var rooms []string
	for _, f := range out {
		if !f.IsProjectScope() && (len(rooms) == 0 || rooms[len(rooms)-1] != f.RoomID) {
			rooms = append(rooms, f.RoomID)
		}
	}
	assert.Equal(t, []string{"b", "a"}, rooms)
}

func TestParseSeriesPolicy(t *testing.T) {
	p, err := ParseSeriesPolicy("")
	require.NoError(t, err)
	assert.Equal(t, SeriesNote, p)

	p, err = ParseSeriesPolicy("warn")
	require.NoError(t, err)
	assert.Equal(t, SeriesWarn, p)

	_, err = ParseSeriesPolicy("shout")
	assert.Error(t, err)
}

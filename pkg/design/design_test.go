package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMeters(t *testing.T) {
	assert.Equal(t, Meters(12), ToMeters(12, ""))
	assert.Equal(t, Meters(12), ToMeters(12, UnitMeters))
	assert.InDelta(t, 10.0584, float64(ToMeters(33, UnitFeet)), 1e-9)
}

func TestMetersFormat(t *testing.T) {
	assert.Equal(t, "10m", Meters(10).Format(UnitSystemMetric))
	assert.Equal(t, "33ft", Meters(10).Format(UnitSystemImperial))
	assert.Equal(t, "10m", Meters(10).Format(""))
}

func TestIORequirement_DistanceMeters(t *testing.T) {
	io := IORequirement{Name: "Lectern", ConnectionType: ConnectionHDMI, Distance: 40, DistanceUnit: UnitFeet}
	assert.InDelta(t, 12.192, float64(io.DistanceMeters()), 1e-9)
}

func TestRoomClone_Independent(t *testing.T) {
	r := RoomConfiguration{
		ID:                     "r1",
		Features:               []Feature{{Name: FeatureBYOM}},
		ManuallyAddedEquipment: []EquipmentLine{{SKU: "A", Quantity: 1}},
	}
	c := r.Clone()
	c.Features[0].Name = "changed"
	c.ManuallyAddedEquipment[0].Quantity = 9

	assert.Equal(t, FeatureBYOM, r.Features[0].Name)
	assert.Equal(t, 1, r.ManuallyAddedEquipment[0].Quantity)
}

func TestUserEquipment(t *testing.T) {
	r := RoomConfiguration{ManuallyAddedEquipment: []EquipmentLine{
		{SKU: "A", Quantity: 1},
		{SKU: "B", Quantity: 1, IsAIGenerated: true},
	}}
	user := r.UserEquipment()
	require.Len(t, user, 1)
	assert.Equal(t, "A", user[0].SKU)
}

func TestValidateRoom(t *testing.T) {
	ok := RoomConfiguration{
		ID:         "r1",
		DesignTier: TierGold,
		Features:   []Feature{{Name: FeatureVideoConferencing, Priority: PriorityMustHave}},
		IORequirements: []IORequirement{
			{Name: "Table", ConnectionType: ConnectionHDMI, Distance: 3, DistanceUnit: UnitMeters},
		},
		ManuallyAddedEquipment: []EquipmentLine{{SKU: "CAM-210-PTZ", Quantity: 1}},
	}
	require.NoError(t, ValidateRoom(ok))

	bad := ok.Clone()
	bad.DesignTier = "Platinum"
	bad.ManuallyAddedEquipment[0].Quantity = 0
	err := ValidateRoom(bad)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestValidateProject_DuplicateRoomIDs(t *testing.T) {
	p := ProjectConfiguration{
		ProjectID: "p1",
		Rooms:     []RoomConfiguration{{ID: "r1"}, {ID: "r1"}},
	}
	err := ValidateProject(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate room id")
}

func TestProjectRoomLookup(t *testing.T) {
	p := ProjectConfiguration{ProjectID: "p1", Rooms: []RoomConfiguration{{ID: "a"}, {ID: "b"}}}
	r, i, ok := p.Room("b")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	r.Name = "Boardroom"
	assert.Equal(t, "Boardroom", p.Rooms[1].Name)

	_, _, ok = p.Room("zzz")
	assert.False(t, ok)
}

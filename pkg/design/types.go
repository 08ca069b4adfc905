// Package design defines project and room configurations: the inputs the
// equipment resolver and rule evaluator reason over.
package design

import (
	"slices"
)

// Tier is a room's design ambition level.
type Tier string

const (
	TierBronze Tier = "Bronze"
	TierSilver Tier = "Silver"
	TierGold   Tier = "Gold"
)

// Well-known feature names with equipment implications.
const (
	FeatureVideoConferencing = "Video Conferencing"
	FeatureBYOM              = "BYOM"
	FeatureKVMControl        = "KVM Control"
	FeatureMultiview         = "Multiview"
)

// Priority tags a feature as required or optional.
type Priority string

const (
	PriorityMustHave   Priority = "must-have"
	PriorityNiceToHave Priority = "nice-to-have"
)

// Feature is a declared room capability.
type Feature struct {
	Name     string   `json:"name" validate:"required"`
	Priority Priority `json:"priority" validate:"omitempty,oneof=must-have nice-to-have"`
}

// Well-known connection types.
const (
	ConnectionHDMI = "HDMI"
	ConnectionUSBC = "USB-C"
)

// IOType distinguishes sources from sinks.
type IOType string

const (
	IOInput  IOType = "input"
	IOOutput IOType = "output"
)

// IORequirement is one input or output point in a room.
type IORequirement struct {
	ID               string     `json:"id,omitempty"`
	Name             string     `json:"name" validate:"required"`
	Type             IOType     `json:"type" validate:"omitempty,oneof=input output"`
	ConnectionType   string     `json:"connectionType" validate:"required"`
	DistributionType string     `json:"distributionType,omitempty"`
	Distance         float64    `json:"distance" validate:"gte=0"`
	DistanceUnit     LengthUnit `json:"distanceUnit,omitempty" validate:"omitempty,oneof=m ft"`
	TerminationPoint string     `json:"terminationPoint,omitempty"`
}

// DistanceMeters returns the one-way cable run normalised to meters.
func (io IORequirement) DistanceMeters() Meters {
	return ToMeters(io.Distance, io.DistanceUnit)
}

// EquipmentLine is one SKU in a room's equipment list.
type EquipmentLine struct {
	SKU           string `json:"sku" validate:"required"`
	Quantity      int    `json:"quantity" validate:"gte=1"`
	IsAIGenerated bool   `json:"isAiGenerated"`
}

// RoomConfiguration is one room within a project.
type RoomConfiguration struct {
	ID                     string          `json:"id" validate:"required"`
	Name                   string          `json:"roomName,omitempty"`
	RoomType               string          `json:"roomType,omitempty"`
	DesignTier             Tier            `json:"designTier" validate:"omitempty,oneof=Bronze Silver Gold"`
	Features               []Feature       `json:"features,omitempty" validate:"dive"`
	IORequirements         []IORequirement `json:"ioRequirements,omitempty" validate:"dive"`
	ManuallyAddedEquipment []EquipmentLine `json:"manuallyAddedEquipment,omitempty" validate:"dive"`
}

// HasFeature reports whether the room declares feature name.
func (r *RoomConfiguration) HasFeature(name string) bool {
	for _, f := range r.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// UserEquipment returns the entries a user chose (isAiGenerated=false).
func (r *RoomConfiguration) UserEquipment() []EquipmentLine {
	var out []EquipmentLine
	for _, l := range r.ManuallyAddedEquipment {
		if !l.IsAIGenerated {
			out = append(out, l)
		}
	}
	return out
}

// Clone returns a deep copy.
func (r RoomConfiguration) Clone() RoomConfiguration {
	c := r
	c.Features = slices.Clone(r.Features)
	c.IORequirements = slices.Clone(r.IORequirements)
	c.ManuallyAddedEquipment = slices.Clone(r.ManuallyAddedEquipment)
	return c
}

// ProjectConfiguration is an ordered collection of rooms plus metadata.
type ProjectConfiguration struct {
	ProjectID   string              `json:"projectId" validate:"required"`
	ProjectName string              `json:"projectName,omitempty"`
	ClientName  string              `json:"clientName,omitempty"`
	UnitSystem  UnitSystem          `json:"unitSystem,omitempty" validate:"omitempty,oneof=metric imperial"`
	Rooms       []RoomConfiguration `json:"rooms" validate:"dive"`
}

// Room returns the room with id and its index.
func (p *ProjectConfiguration) Room(id string) (*RoomConfiguration, int, bool) {
	for i := range p.Rooms {
		if p.Rooms[i].ID == id {
			return &p.Rooms[i], i, true
		}
	}
	return nil, -1, false
}

// Clone returns a deep copy.
func (p ProjectConfiguration) Clone() ProjectConfiguration {
	c := p
	c.Rooms = make([]RoomConfiguration, len(p.Rooms))
	for i, r := range p.Rooms {
		c.Rooms[i] = r.Clone()
	}
	return c
}

// RoomDraft is the structured part of a generated room proposal. Only
// features and I/O points are taken from it; equipment always comes from
// the resolver.
type RoomDraft struct {
	RoomType       string          `json:"roomType,omitempty"`
	DesignTier     Tier            `json:"designTier,omitempty" validate:"omitempty,oneof=Bronze Silver Gold"`
	Features       []Feature       `json:"features" validate:"dive"`
	IORequirements []IORequirement `json:"ioRequirements" validate:"dive"`
}

// Apply copies the draft's features and I/O points onto r. Room type and
// tier are only filled when r leaves them empty.
func (d RoomDraft) Apply(r *RoomConfiguration) {
	r.Features = slices.Clone(d.Features)
	r.IORequirements = slices.Clone(d.IORequirements)
	if r.RoomType == "" {
		r.RoomType = d.RoomType
	}
	if r.DesignTier == "" {
		r.DesignTier = d.DesignTier
	}
}

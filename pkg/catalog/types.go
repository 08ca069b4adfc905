// Package catalog holds the immutable product and installation-task catalog
// and serves read-only lookups by SKU, tag and category.
//
// A catalog is loaded as a whole from a Document. Loads are all-or-nothing:
// a malformed document never replaces the snapshot that is already serving.
package catalog

import (
	"slices"
	"strings"
)

// Category is the catalog's product family. The set is open; the constants
// below are the families the rule engine reasons about.
type Category string

const (
	CategoryMatrix       Category = "Matrix"
	CategoryHDBaseT      Category = "HDBaseT"
	CategoryAVoIP        Category = "AVoIP"
	CategoryUC           Category = "UC"
	CategoryControl      Category = "Control"
	CategoryAccessory    Category = "Accessory"
	CategoryAudio        Category = "Audio"
	CategoryCamera       Category = "Camera"
	CategoryMicrophone   Category = "Microphone"
	CategoryPresentation Category = "Presentation"
	CategoryExtender     Category = "Extender"
)

// Well-known capability tags.
const (
	TagTransmitter       = "transmitter"
	TagReceiver          = "receiver"
	TagKit               = "kit"
	TagCamera            = "camera"
	TagMicrophone        = "microphone"
	TagUSBC              = "usb-c"
	TagKVM               = "kvm"
	TagDSP               = "dsp"
	TagMultiviewSwitcher = "multiview-switcher"
)

// Multiview describes how an AVoIP product composes multiple sources.
type Multiview string

const (
	MultiviewNative           Multiview = "native"
	MultiviewRequiresSwitcher Multiview = "requires_switcher"
)

// ValidSeries is the closed set of AVoIP series. Products from different
// series are never network-compatible.
var ValidSeries = []int{100, 150, 400, 500, 600}

// AVoIPSpec carries network-AV attributes.
type AVoIPSpec struct {
	Series    int       `json:"series" yaml:"series"`
	Multiview Multiview `json:"multiview,omitempty" yaml:"multiview,omitempty"`
}

// Product is a catalog entry. Products are immutable once loaded.
type Product struct {
	SKU                 string     `json:"sku" yaml:"sku"`
	Name                string     `json:"name" yaml:"name"`
	Category            Category   `json:"category" yaml:"category"`
	Description         string     `json:"description,omitempty" yaml:"description,omitempty"`
	Tags                []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	DealerPrice         float64    `json:"dealerPrice" yaml:"dealerPrice"`
	MSRP                float64    `json:"msrp" yaml:"msrp"`
	CompatibleReceivers []string   `json:"compatibleReceivers,omitempty" yaml:"compatibleReceivers,omitempty"`
	KitContents         []string   `json:"kitContents,omitempty" yaml:"kitContents,omitempty"`
	EOL                 bool       `json:"eol,omitempty" yaml:"eol,omitempty"`
	AVoIP               *AVoIPSpec `json:"avoip,omitempty" yaml:"avoip,omitempty"`
}

// HasTag reports whether the product carries tag (case-insensitive).
func (p Product) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range p.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// IsTransmitter reports whether the product is a transmitter: either tagged
// as one or declaring compatible receivers.
func (p Product) IsTransmitter() bool {
	return p.HasTag(TagTransmitter) || len(p.CompatibleReceivers) > 0
}

// IsReceiver reports whether the product is tagged as a receiver.
func (p Product) IsReceiver() bool {
	return p.HasTag(TagReceiver)
}

// IsKit reports whether the product bundles its own receiver/accessories.
func (p Product) IsKit() bool {
	return len(p.KitContents) > 0 || p.HasTag(TagKit)
}

// Series returns the AVoIP series, or 0 for non-AVoIP products.
func (p Product) Series() int {
	if p.AVoIP == nil {
		return 0
	}
	return p.AVoIP.Series
}

// MultiviewMode returns the product's multiview capability, empty if none.
func (p Product) MultiviewMode() Multiview {
	if p.AVoIP == nil {
		return ""
	}
	return p.AVoIP.Multiview
}

// Clone returns a deep copy so callers can never mutate catalog state.
func (p Product) Clone() Product {
	c := p
	c.Tags = slices.Clone(p.Tags)
	c.CompatibleReceivers = slices.Clone(p.CompatibleReceivers)
	c.KitContents = slices.Clone(p.KitContents)
	if p.AVoIP != nil {
		a := *p.AVoIP
		c.AVoIP = &a
	}
	return c
}

// InstallationTask is a labour line item associated with products by tag.
type InstallationTask struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Category  string   `json:"category,omitempty" yaml:"category,omitempty"`
	Hours     float64  `json:"hours" yaml:"hours"`
	AppliesTo []string `json:"appliesTo,omitempty" yaml:"appliesTo,omitempty"`
}

// Document is the wire shape of a catalog load.
type Document struct {
	Version  string             `json:"version" yaml:"version"`
	Products []Product          `json:"products" yaml:"products"`
	Tasks    []InstallationTask `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

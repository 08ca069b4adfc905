// Package catalogtest provides a small, realistic catalog for tests.
package catalogtest

import (
	"testing"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
)

// FixtureJSON is a catalog covering every product role the rule engine
// distinguishes. Declaration order matters: the EOL camera precedes the
// current one so default selection has to skip it.
const FixtureJSON = `{
  "version": "2.4.0",
  "products": [
    {"sku": "MX-0403-H3-MST", "name": "4x3 Presentation Matrix Kit", "category": "Matrix",
     "tags": ["transmitter", "kit", "hdbaset"], "dealerPrice": 1450, "msrp": 2100,
     "compatibleReceivers": ["RX-H3-MST"], "kitContents": ["RX-H3-MST"]},
    {"sku": "RX-H3-MST", "name": "HDBaseT Receiver", "category": "HDBaseT",
     "tags": ["receiver", "hdbaset"], "dealerPrice": 310, "msrp": 450},
    {"sku": "EX-100-G2", "name": "HDBaseT 100m Transmitter", "category": "HDBaseT",
     "tags": ["transmitter", "hdbaset"], "dealerPrice": 420, "msrp": 610},
    {"sku": "EX-70-G2-TX", "name": "HDBaseT 70m Transmitter", "category": "HDBaseT",
     "tags": ["transmitter", "hdbaset"], "dealerPrice": 280, "msrp": 399,
     "compatibleReceivers": ["EX-70-RX-OLD", "EX-70-G2-RX"]},
    {"sku": "EX-70-RX-OLD", "name": "HDBaseT 70m Receiver (legacy)", "category": "HDBaseT",
     "tags": ["receiver", "hdbaset"], "dealerPrice": 250, "msrp": 350, "eol": true},
    {"sku": "EX-70-G2-RX", "name": "HDBaseT 70m Receiver", "category": "HDBaseT",
     "tags": ["receiver", "hdbaset"], "dealerPrice": 270, "msrp": 389},
    {"sku": "NHD-400-TX", "name": "NetworkHD 400 Encoder", "category": "AVoIP",
     "tags": ["transmitter"], "dealerPrice": 690, "msrp": 990,
     "compatibleReceivers": ["NHD-400-RX"], "avoip": {"series": 400}},
    {"sku": "NHD-400-RX", "name": "NetworkHD 400 Decoder", "category": "AVoIP",
     "tags": ["receiver"], "dealerPrice": 690, "msrp": 990,
     "avoip": {"series": 400, "multiview": "requires_switcher"}},
    {"sku": "NHD-500-TX", "name": "NetworkHD 500 Encoder", "category": "AVoIP",
     "tags": ["transmitter"], "dealerPrice": 1100, "msrp": 1590,
     "compatibleReceivers": ["NHD-500-RX"], "avoip": {"series": 500}},
    {"sku": "NHD-500-RX", "name": "NetworkHD 500 Decoder", "category": "AVoIP",
     "tags": ["receiver"], "dealerPrice": 1100, "msrp": 1590,
     "avoip": {"series": 500, "multiview": "native"}},
    {"sku": "CAM-100-LEGACY", "name": "USB Camera (discontinued)", "category": "Camera",
     "tags": ["camera"], "dealerPrice": 300, "msrp": 450, "eol": true},
    {"sku": "CAM-210-PTZ", "name": "PTZ Conference Camera", "category": "Camera",
     "tags": ["camera"], "dealerPrice": 890, "msrp": 1290},
    {"sku": "MIC-100-CEIL", "name": "Ceiling Beamforming Microphone", "category": "Microphone",
     "tags": ["microphone"], "dealerPrice": 760, "msrp": 1100},
    {"sku": "APO-210-UC", "name": "USB-C Presentation Switcher", "category": "UC",
     "tags": ["usb-c", "byod"], "dealerPrice": 540, "msrp": 780},
    {"sku": "SW-0401-KVM", "name": "4x1 KVM Switcher", "category": "Matrix",
     "tags": ["kvm"], "dealerPrice": 610, "msrp": 880},
    {"sku": "DSP-88-PRO", "name": "8x8 Audio DSP", "category": "Audio",
     "tags": ["dsp"], "dealerPrice": 1300, "msrp": 1890},
    {"sku": "MV-SW-400", "name": "NetworkHD Multiview Processor", "category": "AVoIP",
     "tags": ["multiview-switcher"], "dealerPrice": 1500, "msrp": 2200,
     "avoip": {"series": 400}}
  ],
  "tasks": [
    {"id": "T-RACK", "name": "Rack and terminate matrix", "category": "install", "hours": 2.5, "appliesTo": ["Matrix"]},
    {"id": "T-CAM", "name": "Mount and aim camera", "category": "install", "hours": 1.5, "appliesTo": ["camera"]},
    {"id": "T-NET", "name": "Configure multicast VLAN", "category": "network", "hours": 3, "appliesTo": ["AVoIP"]}
  ]
}`

// Snapshot parses FixtureJSON and fails the test on error.
func Snapshot(tb testing.TB) *catalog.Snapshot {
	tb.Helper()
	snap, err := catalog.Parse([]byte(FixtureJSON))
	if err != nil {
		tb.Fatalf("catalogtest: parse fixture: %v", err)
	}
	return snap
}

// Store returns a store serving the fixture catalog.
func Store(tb testing.TB) *catalog.Store {
	tb.Helper()
	s := catalog.NewStore()
	if err := s.Replace(Snapshot(tb)); err != nil {
		tb.Fatalf("catalogtest: load fixture: %v", err)
	}
	return s
}

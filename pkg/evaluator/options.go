package evaluator

import (
	"fmt"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

// SeriesPolicy controls how AVoIP series mixing across different rooms is
// reported. Mixing inside one room is always a Warning.
type SeriesPolicy string

const (
	// SeriesNote emits a project-level Insight noting that the rooms must
	// stay on isolated networks.
	SeriesNote SeriesPolicy = "note"
	// SeriesWarn treats cross-room mixing like in-room mixing.
	SeriesWarn SeriesPolicy = "warn"
	// SeriesIgnore reports nothing for cross-room mixing.
	SeriesIgnore SeriesPolicy = "ignore"
)

// ParseSeriesPolicy validates s. An empty string selects SeriesNote.
func ParseSeriesPolicy(s string) (SeriesPolicy, error) {
	switch SeriesPolicy(s) {
	case "":
		return SeriesNote, nil
	case SeriesNote, SeriesWarn, SeriesIgnore:
		return SeriesPolicy(s), nil
	}
	return "", fmt.Errorf("evaluator: unknown cross-room series policy %q", s)
}

// Options tune evaluation thresholds.
type Options struct {
	LongRunThreshold design.Meters `yaml:"long_run_threshold_m"`
	ScaleThreshold   int           `yaml:"scale_threshold_rooms"`
	CrossRoomSeries  SeriesPolicy  `yaml:"cross_room_series"`
	Currency         string        `yaml:"currency"`
}

// DefaultOptions returns the canonical thresholds: 10m HDMI runs and a
// backbone recommendation above four rooms.
func DefaultOptions() Options {
	return Options{
		LongRunThreshold: 10,
		ScaleThreshold:   4,
		CrossRoomSeries:  SeriesNote,
		Currency:         "USD",
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LongRunThreshold <= 0 {
		o.LongRunThreshold = d.LongRunThreshold
	}
	if o.ScaleThreshold <= 0 {
		o.ScaleThreshold = d.ScaleThreshold
	}
	if o.CrossRoomSeries == "" {
		o.CrossRoomSeries = d.CrossRoomSeries
	}
	if o.Currency == "" {
		o.Currency = d.Currency
	}
	return o
}

package design

import "fmt"

// Meters is the internal length unit. All distance thresholds are stored
// in meters; feet exist only for input and display.
type Meters float64

// LengthUnit is the unit a distance was entered in.
type LengthUnit string

const (
	UnitMeters LengthUnit = "m"
	UnitFeet   LengthUnit = "ft"
)

// UnitSystem is the project's display preference.
type UnitSystem string

const (
	UnitSystemMetric   UnitSystem = "metric"
	UnitSystemImperial UnitSystem = "imperial"
)

const metersPerFoot = 0.3048

// ToMeters converts v in unit to meters. An empty unit means meters.
func ToMeters(v float64, unit LengthUnit) Meters {
	if unit == UnitFeet {
		return Meters(v * metersPerFoot)
	}
	return Meters(v)
}

// Feet returns m expressed in feet.
func (m Meters) Feet() float64 {
	return float64(m) / metersPerFoot
}

// Format renders m in the display unit system, rounded to whole units.
func (m Meters) Format(system UnitSystem) string {
	if system == UnitSystemImperial {
		return fmt.Sprintf("%.0fft", m.Feet())
	}
	return fmt.Sprintf("%.0fm", float64(m))
}

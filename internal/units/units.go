// Package units provides shared constants and validation for the speed
// units used in planner reports. The planner itself works in m/s.
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// Validate returns a descriptive error for an unknown unit.
func Validate(unit string) error {
	if IsValid(unit) {
		return nil
	}
	return fmt.Errorf("invalid units %q, expected one of: %s", unit, strings.Join(ValidUnits, ", "))
}

// ConvertSpeed converts a speed from metres per second to the target units.
// Unknown units leave the value in m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// Label returns the display suffix for a unit.
func Label(unit string) string {
	switch unit {
	case MPH:
		return "mph"
	case KMPH, KPH:
		return "km/h"
	default:
		return "m/s"
	}
}

// FormatSpeed renders a m/s speed in the target units, e.g. "22.4 mph".
func FormatSpeed(speedMPS float64, targetUnits string) string {
	return fmt.Sprintf("%.1f %s", ConvertSpeed(speedMPS, targetUnits), Label(targetUnits))
}

package units

import (
	"math"
	"testing"
)

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedMPS float64
		units    string
		expected float64
	}{
		{"10 m/s to mph", 10.0, MPH, 22.3694},
		{"10 m/s to kmph", 10.0, KMPH, 36.0},
		{"10 m/s to kph", 10.0, KPH, 36.0},
		{"10 m/s to mps", 10.0, MPS, 10.0},
		{"unknown units default to mps", 10.0, "unknown", 10.0},
		{"stopped", 0.0, MPH, 0.0},
		{"approach speed 11.18 m/s to mph", 11.18, MPH, 25.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedMPS, tt.units)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedMPS, tt.units, result, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	for _, u := range ValidUnits {
		if err := Validate(u); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", u, err)
		}
	}
	if err := Validate("furlongs"); err == nil {
		t.Error("Validate(furlongs) = nil, want error")
	}
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		speed float64
		units string
		want  string
	}{
		{10, MPS, "10.0 m/s"},
		{10, KPH, "36.0 km/h"},
		{10, MPH, "22.4 mph"},
	}
	for _, tt := range tests {
		if got := FormatSpeed(tt.speed, tt.units); got != tt.want {
			t.Errorf("FormatSpeed(%v, %q) = %q, want %q", tt.speed, tt.units, got, tt.want)
		}
	}
}

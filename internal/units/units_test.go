package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	for _, unit := range ValidUnits {
		if !IsValid(unit) {
			t.Errorf("IsValid(%q) = false, want true", unit)
		}
	}
	for _, unit := range []string{"", "knots", "MPH"} {
		if IsValid(unit) {
			t.Errorf("IsValid(%q) = true, want false", unit)
		}
	}
}

func TestConvertSpeed(t *testing.T) {
	cases := []struct {
		units string
		want  float64
	}{
		{MPS, 10},
		{MPH, 22.369362920544},
		{KMPH, 36},
		{KPH, 36},
		{"unknown", 10},
	}
	for _, tc := range cases {
		if got := ConvertSpeed(10, tc.units); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ConvertSpeed(10, %q) = %v, want %v", tc.units, got, tc.want)
		}
	}
}

func TestFormatSpeed(t *testing.T) {
	if got := FormatSpeed(10, KPH); got != "36.00 kph" {
		t.Errorf("FormatSpeed(10, kph) = %q, want %q", got, "36.00 kph")
	}
	// Unknown units fall back to m/s.
	if got := FormatSpeed(10, "furlongs"); got != "10.00 mps" {
		t.Errorf("FormatSpeed(10, furlongs) = %q, want %q", got, "10.00 mps")
	}
}

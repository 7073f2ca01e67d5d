package fuzzy

import (
	"math"
	"testing"
)

func TestTriangularGrade(t *testing.T) {
	tri := Triangular{A: 0, B: 5, C: 10}

	cases := []struct {
		name string
		x    float64
		want float64
	}{
		{"below support", -1, 0},
		{"left foot", 0, 0},
		{"ascending", 2.5, 0.5},
		{"peak", 5, 1},
		{"descending", 7.5, 0.5},
		{"right foot", 10, 0},
		{"above support", 11, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tri.Grade(tc.x); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Grade(%v) = %v, want %v", tc.x, got, tc.want)
			}
		})
	}
}

func TestTrapezoidalGrade(t *testing.T) {
	trap := Trapezoidal{A: 0, B: 2, C: 6, D: 10}

	cases := []struct {
		name string
		x    float64
		want float64
	}{
		{"below support", -0.5, 0},
		{"ascending flank", 1, 0.5},
		{"plateau left edge", 2, 1},
		{"plateau interior", 4, 1},
		{"plateau right edge", 6, 1},
		{"descending flank", 8, 0.5},
		{"above support", 10.5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := trap.Grade(tc.x); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Grade(%v) = %v, want %v", tc.x, got, tc.want)
			}
		})
	}
}

// Degenerate vertical edges must grade as the plateau value, not NaN.
func TestDegenerateEdgesDoNotProduceNaN(t *testing.T) {
	shapes := []Shape{
		Triangular{A: 0, B: 0, C: 1},        // vertical left edge
		Triangular{A: 0, B: 1, C: 1},        // vertical right edge
		Triangular{A: 1, B: 1, C: 1},        // singleton
		Trapezoidal{A: 0, B: 0, C: 1, D: 1}, // both flanks vertical
	}
	for _, s := range shapes {
		lo, hi := s.Bounds()
		for _, x := range []float64{lo, (lo + hi) / 2, hi} {
			g := s.Grade(x)
			if math.IsNaN(g) || math.IsInf(g, 0) {
				t.Errorf("%+v Grade(%v) = %v, want finite", s, x, g)
			}
			if g < 0 || g > 1 {
				t.Errorf("%+v Grade(%v) = %v, want within [0,1]", s, x, g)
			}
		}
	}
	if got := (Triangular{A: 0, B: 0, C: 1}).Grade(0); got != 1 {
		t.Errorf("vertical left edge Grade(0) = %v, want 1", got)
	}
	if got := (Triangular{A: 0, B: 1, C: 1}).Grade(1); got != 1 {
		t.Errorf("vertical right edge Grade(1) = %v, want 1", got)
	}
}

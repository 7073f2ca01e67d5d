package fuzzy

// Shape is the membership-shape contract. Grade returns the degree of
// membership of x in [0,1]; Bounds returns the support interval outside
// which Grade is always zero.
//
// Adding a new shape requires implementing Shape and registering its JSON
// discriminator in membership.go — the inference engine itself never needs
// to change.
type Shape interface {
	Grade(x float64) float64
	Bounds() (lo, hi float64)
}

// TriangularName is the JSON discriminator string for Triangular.
const TriangularName = "triangular"

// TrapezoidalName is the JSON discriminator string for Trapezoidal.
const TrapezoidalName = "trapezoidal"

// Triangular is a triangle with feet at A and C and peak at B.
// Breakpoints are assumed ordered A ≤ B ≤ C; this is not enforced.
//
// JSON discriminator: "type": "triangular"
type Triangular struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Grade evaluates the triangle at x. A degenerate vertical edge (A == B or
// B == C) grades as the plateau value 1 rather than dividing by zero.
func (t Triangular) Grade(x float64) float64 {
	if x < t.A || x > t.C {
		return 0
	}
	if x < t.B {
		if t.B == t.A {
			return 1
		}
		return (x - t.A) / (t.B - t.A)
	}
	if t.C == t.B {
		return 1
	}
	return (t.C - x) / (t.C - t.B)
}

func (t Triangular) Bounds() (float64, float64) { return t.A, t.C }

// Trapezoidal is a trapezoid with feet at A and D and plateau [B, C].
// Breakpoints are assumed ordered A ≤ B ≤ C ≤ D; this is not enforced.
//
// JSON discriminator: "type": "trapezoidal"
type Trapezoidal struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// Grade evaluates the trapezoid at x. Degenerate vertical flanks grade as
// the plateau value 1 rather than dividing by zero.
func (t Trapezoidal) Grade(x float64) float64 {
	if x < t.A || x > t.D {
		return 0
	}
	if x < t.B {
		if t.B == t.A {
			return 1
		}
		return (x - t.A) / (t.B - t.A)
	}
	if x <= t.C {
		return 1
	}
	if t.D == t.C {
		return 1
	}
	return (t.D - x) / (t.D - t.C)
}

func (t Trapezoidal) Bounds() (float64, float64) { return t.A, t.D }

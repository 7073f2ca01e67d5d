package fuzzy

import (
	"encoding/json"
	"fmt"
)

// MembershipFunction is a named shape inside a linguistic variable.
// Names must be unique within their variable.
type MembershipFunction struct {
	Name  string
	Shape Shape
}

// shapeDisc is the minimum JSON structure needed to read the shape discriminator.
type shapeDisc struct {
	Type string `json:"type"`
}

// membershipJSON is the raw JSON shape of a MembershipFunction, before the
// concrete shape is resolved.
type membershipJSON struct {
	Name  string          `json:"name"`
	Shape json.RawMessage `json:"shape"`
}

// MarshalJSON implements json.Marshaler for MembershipFunction, embedding
// the shape discriminator alongside the breakpoints.
func (m MembershipFunction) MarshalJSON() ([]byte, error) {
	var shape map[string]interface{}
	switch s := m.Shape.(type) {
	case Triangular:
		shape = map[string]interface{}{"type": TriangularName, "a": s.A, "b": s.B, "c": s.C}
	case Trapezoidal:
		shape = map[string]interface{}{"type": TrapezoidalName, "a": s.A, "b": s.B, "c": s.C, "d": s.D}
	default:
		return nil, fmt.Errorf("membership %q: unsupported shape %T", m.Name, m.Shape)
	}
	return json.Marshal(struct {
		Name  string                 `json:"name"`
		Shape map[string]interface{} `json:"shape"`
	}{Name: m.Name, Shape: shape})
}

// UnmarshalJSON implements json.Unmarshaler for MembershipFunction.
// The "shape" object must contain a "type" discriminator key that selects
// the concrete implementation; the rest of the shape object is forwarded
// to that implementation's own unmarshaler.
//
// Supported types: "triangular", "trapezoidal".
func (m *MembershipFunction) UnmarshalJSON(data []byte) error {
	var raw membershipJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Name == "" {
		return fmt.Errorf("membership function missing name")
	}

	var disc shapeDisc
	if err := json.Unmarshal(raw.Shape, &disc); err != nil {
		return fmt.Errorf("membership %q: reading shape discriminator: %w", raw.Name, err)
	}

	var shape Shape
	switch disc.Type {
	case TriangularName:
		var s Triangular
		if err := json.Unmarshal(raw.Shape, &s); err != nil {
			return fmt.Errorf("membership %q: %w", raw.Name, err)
		}
		shape = s
	case TrapezoidalName:
		var s Trapezoidal
		if err := json.Unmarshal(raw.Shape, &s); err != nil {
			return fmt.Errorf("membership %q: %w", raw.Name, err)
		}
		shape = s
	default:
		return fmt.Errorf("membership %q: unknown shape type %q", raw.Name, disc.Type)
	}

	m.Name = raw.Name
	m.Shape = shape
	return nil
}

// LinguisticVariable is a named, ordered collection of membership functions.
// Insertion order matters only for display; evaluation is order-independent.
type LinguisticVariable struct {
	Name    string               `json:"name"`
	Members []MembershipFunction `json:"members"`
}

// Grade returns the degree of membership of x in the named member, or 0 if
// no member has that name.
func (v LinguisticVariable) Grade(member string, x float64) float64 {
	for _, m := range v.Members {
		if m.Name == member {
			return m.Shape.Grade(x)
		}
	}
	return 0
}

// Fuzzify evaluates every member at x and returns name → degree.
func (v LinguisticVariable) Fuzzify(x float64) map[string]float64 {
	degrees := make(map[string]float64, len(v.Members))
	for _, m := range v.Members {
		degrees[m.Name] = m.Shape.Grade(x)
	}
	return degrees
}

// Bounds returns the union of all member supports. ok is false when the
// variable has no members.
func (v LinguisticVariable) Bounds() (lo, hi float64, ok bool) {
	for i, m := range v.Members {
		mlo, mhi := m.Shape.Bounds()
		if i == 0 {
			lo, hi = mlo, mhi
			continue
		}
		if mlo < lo {
			lo = mlo
		}
		if mhi > hi {
			hi = mhi
		}
	}
	return lo, hi, len(v.Members) > 0
}

// clone returns a deep copy. Shapes are value types, so copying the member
// slice is sufficient.
func (v LinguisticVariable) clone() LinguisticVariable {
	out := LinguisticVariable{Name: v.Name}
	out.Members = make([]MembershipFunction, len(v.Members))
	copy(out.Members, v.Members)
	return out
}

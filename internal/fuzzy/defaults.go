package fuzzy

// DefaultConfig returns the reference controller: three linguistic
// variables (speed in m/s, distance in m, brake in [0,1]) and a nine-rule
// base. The variables are deliberately narrow: a vehicle that is far away
// and slow-moving activates nothing, and the controller commands no brake
// at all.
func DefaultConfig() *ControllerConfig {
	return &ControllerConfig{
		Speed: LinguisticVariable{
			Name: "Speed",
			Members: []MembershipFunction{
				{Name: "Low", Shape: Trapezoidal{A: 0, B: 0, C: 2, D: 4}},
				{Name: "Medium", Shape: Triangular{A: 3, B: 6, C: 9}},
				{Name: "High", Shape: Trapezoidal{A: 8, B: 10, C: 12, D: 14}},
			},
		},
		Distance: LinguisticVariable{
			Name: "Distance",
			Members: []MembershipFunction{
				{Name: "Close", Shape: Trapezoidal{A: 0, B: 0, C: 4, D: 8}},
				{Name: "Medium", Shape: Triangular{A: 6, B: 14, C: 22}},
				{Name: "Far", Shape: Trapezoidal{A: 20, B: 28, C: 36, D: 44}},
			},
		},
		Brake: LinguisticVariable{
			Name: "Brake",
			Members: []MembershipFunction{
				{Name: "None", Shape: Triangular{A: 0, B: 0, C: 0.25}},
				{Name: "Soft", Shape: Triangular{A: 0.05, B: 0.25, C: 0.45}},
				{Name: "Moderate", Shape: Triangular{A: 0.3, B: 0.5, C: 0.7}},
				{Name: "Strong", Shape: Triangular{A: 0.55, B: 0.75, C: 0.95}},
				{Name: "Full", Shape: Triangular{A: 0.75, B: 1, C: 1}},
			},
		},
		Rules: []Rule{
			{Distance: "Close", Speed: "Low", Brake: "Moderate"},
			{Distance: "Close", Speed: "Medium", Brake: "Strong"},
			{Distance: "Close", Speed: "High", Brake: "Full"},
			{Distance: "Medium", Speed: "Low", Brake: "Soft"},
			{Distance: "Medium", Speed: "Medium", Brake: "Moderate"},
			{Distance: "Medium", Speed: "High", Brake: "Strong"},
			{Distance: "Far", Speed: "Low", Brake: "None"},
			{Distance: "Far", Speed: "Medium", Brake: "Soft"},
			{Distance: "Far", Speed: "High", Brake: "Moderate"},
		},
	}
}

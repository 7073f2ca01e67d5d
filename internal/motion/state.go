// Package motion advances single-degree-of-freedom braking kinematics on
// an inclined surface by fixed timesteps and classifies how a run ends.
//
// The integrator is deliberately ignorant of how the brake intensity is
// produced: the orchestrating caller writes State.Brake between steps.
package motion

import "fmt"

// Gravity is the standard gravitational acceleration, m/s².
const Gravity = 9.81

// VelocityTolerance is the |v| band (m/s) inside which the body is treated
// as stationary for the static-friction regime and rest detection.
const VelocityTolerance = 1e-3

// massFloor is the minimum mass (kg) the integrator will compute with.
const massFloor = 1e-3

// StopReason classifies why a run terminated.
type StopReason int

const (
	// ReasonRest: the body came to rest before the obstacle.
	ReasonRest StopReason = iota + 1
	// ReasonObstacle: the body reached the obstacle position.
	ReasonObstacle
	// ReasonEject: deceleration exceeded the occupant-ejection threshold.
	ReasonEject
)

// String returns the lower-case wire name of the reason.
func (r StopReason) String() string {
	switch r {
	case ReasonRest:
		return "rest"
	case ReasonObstacle:
		return "obstacle"
	case ReasonEject:
		return "eject"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// ParseStopReason converts a wire name back into a StopReason.
func ParseStopReason(s string) (StopReason, error) {
	switch s {
	case "rest":
		return ReasonRest, nil
	case "obstacle":
		return ReasonObstacle, nil
	case "eject":
		return ReasonEject, nil
	default:
		return 0, fmt.Errorf("unknown stop reason %q", s)
	}
}

// EjectDetails carries the measurement behind an ejection classification.
type EjectDetails struct {
	Decel     float64 `json:"decel_mps2"`     // magnitude, m/s²
	Threshold float64 `json:"threshold_mps2"` // configured limit, m/s²
}

// Stop is the terminal classification of a run. Eject is non-nil only when
// Reason is ReasonEject.
type Stop struct {
	Reason StopReason
	Eject  *EjectDetails
}

// State is the mutable kinematic aggregate for one run. It is created
// fresh on reset, mutated only by Step and by the observer writing Brake,
// and discarded wholesale on the next reset.
type State struct {
	T  float64 // elapsed simulation time, s
	DT float64 // fixed timestep, s; must be > 0 and constant for the run
	X  float64 // position along the slope, m, toward the obstacle
	V  float64 // velocity, m/s, positive toward the obstacle
	A  float64 // acceleration, m/s²

	Mass     float64 // kg; clamped to a positive floor during stepping
	Mu       float64 // Coulomb friction coefficient under full brake
	Theta    float64 // incline angle, radians; positive tips toward the obstacle
	Crr      float64 // rolling-resistance coefficient
	Obstacle float64 // obstacle position, m

	Brake          float64 // most recent commanded brake intensity, clamped to [0,1]
	EjectThreshold float64 // deceleration limit, m/s²; 0 disables the check
}

// DistanceToObstacle returns the remaining gap, never negative.
func (s *State) DistanceToObstacle() float64 {
	d := s.Obstacle - s.X
	if d < 0 {
		return 0
	}
	return d
}

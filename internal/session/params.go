package session

import (
	"fmt"
	"time"
)

// Params are the operator-chosen inputs for one run. They are read at
// Reset and never consulted mid-run.
type Params struct {
	Mass           float64 `json:"mass_kg"`
	Mu             float64 `json:"mu"`
	Theta          float64 `json:"theta_rad"`
	Crr            float64 `json:"crr"`
	Obstacle       float64 `json:"obstacle_m"`
	InitialSpeed   float64 `json:"initial_speed_mps"`
	EjectThreshold float64 `json:"eject_threshold_mps2"`
	DT             float64 `json:"dt_s"`
	TimeScale      float64 `json:"time_scale"`

	// RefreshInterval throttles the UI-refresh callback; zero disables
	// throttling.
	RefreshInterval time.Duration `json:"-"`
}

// DefaultParams returns a plausible downhill braking scenario: a 70 kg
// body released at 6 m/s on a flat surface, 20 m from the obstacle.
func DefaultParams() Params {
	return Params{
		Mass:           70,
		Mu:             0.4,
		Theta:          0,
		Crr:            0.01,
		Obstacle:       20,
		InitialSpeed:   6,
		EjectThreshold: 60,
		DT:             0.01,
		TimeScale:      1,
	}
}

// Validate rejects parameter combinations the core cannot simulate.
func (p Params) Validate() error {
	if p.Mass <= 0 {
		return fmt.Errorf("mass must be > 0, got %g", p.Mass)
	}
	if p.Mu < 0 {
		return fmt.Errorf("friction coefficient must be >= 0, got %g", p.Mu)
	}
	if p.Crr < 0 {
		return fmt.Errorf("rolling-resistance coefficient must be >= 0, got %g", p.Crr)
	}
	if p.Obstacle < 0 {
		return fmt.Errorf("obstacle position must be >= 0, got %g", p.Obstacle)
	}
	if p.DT <= 0 {
		return fmt.Errorf("timestep must be > 0, got %g", p.DT)
	}
	if p.TimeScale <= 0 {
		return fmt.Errorf("time scale must be > 0, got %g", p.TimeScale)
	}
	return nil
}

package recorder

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds aggregate statistics for one run's samples.
type Summary struct {
	Duration    float64 `json:"duration_s"`
	Travel      float64 `json:"travel_m"`
	MaxSpeedMps float64 `json:"max_speed_mps"`
	P50SpeedMps float64 `json:"p50_speed_mps"`
	P85SpeedMps float64 `json:"p85_speed_mps"`
	P95SpeedMps float64 `json:"p95_speed_mps"`
	MaxDecel    float64 `json:"max_decel_mps2"`
	MaxBrake    float64 `json:"max_brake"`
	Steps       int     `json:"steps"`
}

// Summarise computes aggregate statistics over samples in any order.
// Speed percentiles use absolute velocity so downhill and uphill runs
// report comparably.
func Summarise(samples []Sample) Summary {
	var s Summary
	s.Steps = len(samples)
	if len(samples) == 0 {
		return s
	}

	speeds := make([]float64, 0, len(samples))
	minT, maxT := samples[0].T, samples[0].T
	minX, maxX := samples[0].X, samples[0].X
	for _, smp := range samples {
		v := smp.V
		if v < 0 {
			v = -v
		}
		speeds = append(speeds, v)
		if v > s.MaxSpeedMps {
			s.MaxSpeedMps = v
		}
		if smp.A < 0 && -smp.A > s.MaxDecel {
			s.MaxDecel = -smp.A
		}
		if smp.Brake > s.MaxBrake {
			s.MaxBrake = smp.Brake
		}
		if smp.T < minT {
			minT = smp.T
		}
		if smp.T > maxT {
			maxT = smp.T
		}
		if smp.X < minX {
			minX = smp.X
		}
		if smp.X > maxX {
			maxX = smp.X
		}
	}
	s.Duration = maxT - minT
	s.Travel = maxX - minX

	sort.Float64s(speeds)
	s.P50SpeedMps = stat.Quantile(0.50, stat.Empirical, speeds, nil)
	s.P85SpeedMps = stat.Quantile(0.85, stat.Empirical, speeds, nil)
	s.P95SpeedMps = stat.Quantile(0.95, stat.Empirical, speeds, nil)
	return s
}

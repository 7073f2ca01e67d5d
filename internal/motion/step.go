package motion

import "math"

// Step advances the state by one fixed timestep using semi-implicit Euler
// and returns a terminal classification, or nil while the run continues.
// Time always advances by exactly DT, including on the terminal step.
//
// Force model: normal force N = m·g·cos(θ); gravity along the slope
// F_g = m·g·sin(θ) (positive toward the obstacle); rolling resistance
// F_r = crr·N; available brake force F_bmax = μ·N, of which the commanded
// fraction is applied. Resistive forces always oppose the direction of
// (potential) motion.
func Step(st *State) *Stop {
	mass := st.Mass
	if mass < massFloor {
		mass = massFloor
	}
	brake := st.Brake
	if brake < 0 {
		brake = 0
	} else if brake > 1 {
		brake = 1
	}
	st.Brake = brake

	normal := mass * Gravity * math.Cos(st.Theta)
	gravity := mass * Gravity * math.Sin(st.Theta)
	resist := st.Crr*normal + brake*st.Mu*normal

	var net float64
	if math.Abs(st.V) <= VelocityTolerance {
		// Static regime: the body moves only if gravity along the slope
		// beats the total resistance. The comparison is exact, with no
		// hysteresis band beyond the velocity tolerance.
		if math.Abs(gravity) <= resist {
			st.V = 0
			st.A = 0
			st.T += st.DT
			return &Stop{Reason: ReasonRest}
		}
		if gravity > 0 {
			net = gravity - resist
		} else {
			net = gravity + resist
		}
	} else if st.V > 0 {
		net = gravity - resist
	} else {
		net = gravity + resist
	}

	st.A = net / mass

	// Ejection takes priority over integration. Skipped on the very first
	// step (t == 0) so initial-condition transients cannot end the run.
	if st.T > 0 && st.EjectThreshold > 0 && st.V > 0 && st.A < 0 {
		if decel := -st.A; decel >= st.EjectThreshold {
			details := &EjectDetails{Decel: decel, Threshold: st.EjectThreshold}
			st.V = 0
			st.A = 0
			st.T += st.DT
			return &Stop{Reason: ReasonEject, Eject: details}
		}
	}

	// Semi-implicit Euler: velocity first, then position from the updated
	// velocity. A zero crossing stops the run at the pre-step position;
	// reverse travel past a rest point is intentionally not simulated.
	prevV := st.V
	newV := st.V + st.A*st.DT
	crossed := prevV > VelocityTolerance && newV <= 0 ||
		prevV < -VelocityTolerance && newV >= 0
	if crossed || math.Abs(newV) <= VelocityTolerance {
		st.V = 0
		st.A = 0
		st.T += st.DT
		return &Stop{Reason: ReasonRest}
	}

	st.V = newV
	st.X += st.V * st.DT
	st.T += st.DT
	if st.X < 0 {
		st.X = 0
	}

	if st.X >= st.Obstacle {
		st.X = st.Obstacle
		st.V = 0
		st.A = 0
		return &Stop{Reason: ReasonObstacle}
	}
	return nil
}

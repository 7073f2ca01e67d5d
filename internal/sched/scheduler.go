// Package sched converts variable wall-clock frame intervals into a whole
// number of fixed physics increments per frame.
//
// The scheduler owns no physics and no controller: it drives an injected
// step function and notifies injected observers. The orchestrating caller
// wires those together, which keeps the scheduler independently testable.
package sched

import (
	"time"

	"github.com/veloforge/brakesim/internal/motion"
	"github.com/veloforge/brakesim/internal/timeutil"
)

// DefaultMaxAccumulated caps the carry buffer (seconds of scaled time) so
// a long stall cannot trigger an unbounded catch-up burst.
const DefaultMaxAccumulated = 0.1

// StepFunc advances the simulation by one fixed increment and returns a
// terminal classification, or nil while the run continues.
type StepFunc func() *motion.Stop

// Options configures a Scheduler.
type Options struct {
	DT        float64 // fixed physics increment, seconds; required > 0
	TimeScale float64 // multiplier on elapsed wall-clock time; default 1
	MaxAccum  float64 // carry-buffer cap, seconds; default DefaultMaxAccumulated, raised to DT if smaller

	// RefreshInterval throttles OnRefresh; zero fires it every frame.
	RefreshInterval time.Duration

	// OnStep runs after every individual fixed increment, including the
	// terminal one. This is where the caller reads state, runs the
	// controller, and writes the next brake command.
	OnStep func()

	// OnEnd runs exactly once per run, after the final OnStep, with the
	// terminal classification.
	OnEnd func(motion.Stop)

	// OnRefresh is the throttleable UI-refresh hook; may be nil.
	OnRefresh func()

	Clock timeutil.Clock // defaults to the real clock
}

// Scheduler accumulates scaled frame time and consumes it in whole
// multiples of the fixed timestep. Not safe for concurrent use: one
// logical driver calls Frame once per frame.
type Scheduler struct {
	step  StepFunc
	opts  Options
	clock timeutil.Clock

	accum       float64
	halted      bool
	paused      bool
	lastRefresh time.Time
}

// New creates a scheduler around the given step function.
func New(step StepFunc, opts Options) *Scheduler {
	if opts.TimeScale <= 0 {
		opts.TimeScale = 1
	}
	if opts.MaxAccum <= 0 {
		opts.MaxAccum = DefaultMaxAccumulated
	}
	// The cap must admit at least one whole step, or the accumulator can
	// never reach DT and the run stalls without a terminal classification.
	if opts.MaxAccum < opts.DT {
		opts.MaxAccum = opts.DT
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Scheduler{step: step, opts: opts, clock: clock}
}

// Frame feeds one frame's elapsed wall-clock interval (seconds) into the
// accumulator and runs the owed fixed steps. It returns false once the run
// has produced a terminal classification; later frames are no-ops.
func (s *Scheduler) Frame(elapsed float64) bool {
	if s.halted {
		return false
	}
	if s.paused || s.opts.DT <= 0 {
		return true
	}

	s.accum += elapsed * s.opts.TimeScale
	if s.accum > s.opts.MaxAccum {
		s.accum = s.opts.MaxAccum
	}

	for s.accum >= s.opts.DT {
		stop := s.step()
		s.accum -= s.opts.DT
		if s.opts.OnStep != nil {
			s.opts.OnStep()
		}
		if stop != nil {
			s.halted = true
			if s.opts.OnEnd != nil {
				s.opts.OnEnd(*stop)
			}
			return false
		}
	}

	s.refresh()
	return true
}

// refresh fires OnRefresh, honouring the configured throttle interval.
func (s *Scheduler) refresh() {
	if s.opts.OnRefresh == nil {
		return
	}
	if s.opts.RefreshInterval > 0 {
		now := s.clock.Now()
		if !s.lastRefresh.IsZero() && now.Sub(s.lastRefresh) < s.opts.RefreshInterval {
			return
		}
		s.lastRefresh = now
	}
	s.opts.OnRefresh()
}

// Pause stops consuming frames without discarding accumulated time.
// It never interrupts an in-flight step; it only takes effect between frames.
func (s *Scheduler) Pause() { s.paused = true }

// Resume re-enables frame consumption after Pause.
func (s *Scheduler) Resume() { s.paused = false }

// Halted reports whether a terminal classification has been delivered.
func (s *Scheduler) Halted() bool { return s.halted }

// Accumulated returns the current carry-buffer contents, seconds.
func (s *Scheduler) Accumulated() float64 { return s.accum }

// SetTimeScale adjusts the time-scale multiplier between frames.
func (s *Scheduler) SetTimeScale(scale float64) {
	if scale > 0 {
		s.opts.TimeScale = scale
	}
}

// Package session wires the fuzzy controller, the motion integrator, and
// the fixed-step scheduler into one simulation run.
//
// The wiring is deliberately indirect: the scheduler only sees a step
// function and observers, and the integrator only sees a brake intensity
// written into its state between steps. Neither imports the fuzzy engine;
// the session is the single place where the three meet.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veloforge/brakesim/internal/fuzzy"
	"github.com/veloforge/brakesim/internal/monitoring"
	"github.com/veloforge/brakesim/internal/motion"
	"github.com/veloforge/brakesim/internal/recorder"
	"github.com/veloforge/brakesim/internal/sched"
	"github.com/veloforge/brakesim/internal/timeutil"
)

// Result is the terminal notification for one run, delivered exactly once.
type Result struct {
	RunID   string
	Stop    motion.Stop
	Summary recorder.Summary
	Params  Params
}

// Session owns one simulation's state, controller, and scheduling.
// It is single-threaded: one driver goroutine calls Frame or Run.
type Session struct {
	engine *fuzzy.Engine
	clock  timeutil.Clock

	params    Params
	state     *motion.State
	scheduler *sched.Scheduler
	ring      *recorder.Ring
	runID     string
	result    *Result

	// OnEnd, if set, receives the terminal Result. It fires once per run.
	OnEnd func(Result)

	// OnRefresh is the throttleable UI-refresh hook; may be nil.
	OnRefresh func()
}

// New creates a session with the given controller engine and clock.
// A nil engine gets the default controller; a nil clock gets the real one.
func New(engine *fuzzy.Engine, clock timeutil.Clock) *Session {
	if engine == nil {
		engine = fuzzy.NewEngine(nil)
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	s := &Session{
		engine: engine,
		clock:  clock,
		ring:   recorder.NewRing(0),
	}
	s.Reset(DefaultParams())
	return s
}

// Engine exposes the controller for configuration replacement.
func (s *Session) Engine() *fuzzy.Engine { return s.engine }

// Reset discards the current run wholesale and builds a fresh state from
// params. The previous state is never partially rolled back. The initial
// brake command is inferred immediately so the very first step already
// consumes a controller output.
func (s *Session) Reset(params Params) {
	s.params = params
	s.runID = uuid.New().String()
	s.result = nil
	s.ring.Reset()

	st := &motion.State{
		DT:             params.DT,
		V:              params.InitialSpeed,
		Mass:           params.Mass,
		Mu:             params.Mu,
		Theta:          params.Theta,
		Crr:            params.Crr,
		Obstacle:       params.Obstacle,
		EjectThreshold: params.EjectThreshold,
	}
	st.Brake = s.engine.Infer(st.V, st.DistanceToObstacle())
	s.state = st

	s.scheduler = sched.New(func() *motion.Stop { return motion.Step(st) }, sched.Options{
		DT:              params.DT,
		TimeScale:       params.TimeScale,
		RefreshInterval: params.RefreshInterval,
		Clock:           s.clock,
		OnStep:          s.observe,
		OnEnd:           s.finish,
		OnRefresh: func() {
			if s.OnRefresh != nil {
				s.OnRefresh()
			}
		},
	})
}

// observe runs after every integrator step: record the sample, then run
// the controller and write the brake command the next step will consume.
func (s *Session) observe() {
	st := s.state
	dist := st.DistanceToObstacle()
	s.ring.Push(recorder.Sample{
		T: st.T, X: st.X, V: st.V, A: st.A,
		Brake: st.Brake, Distance: dist,
	})
	st.Brake = s.engine.Infer(st.V, dist)
}

// finish captures the terminal result and notifies the end observer.
func (s *Session) finish(stop motion.Stop) {
	res := Result{
		RunID:   s.runID,
		Stop:    stop,
		Summary: recorder.Summarise(s.ring.Snapshot()),
		Params:  s.params,
	}
	s.result = &res
	monitoring.Logf("run %s ended: %s after %.2fs, %.2fm",
		res.RunID, stop.Reason, res.Summary.Duration, res.Summary.Travel)
	if s.OnEnd != nil {
		s.OnEnd(res)
	}
}

// Frame feeds one frame's elapsed wall-clock seconds to the scheduler.
// Returns false once the run has ended.
func (s *Session) Frame(elapsed float64) bool {
	return s.scheduler.Frame(elapsed)
}

// Pause stops scheduling between frames; in-flight steps are never
// interrupted because Frame is synchronous.
func (s *Session) Pause() { s.scheduler.Pause() }

// Resume re-enables scheduling after Pause.
func (s *Session) Resume() { s.scheduler.Resume() }

// RunID returns the identifier of the current run.
func (s *Session) RunID() string { return s.runID }

// State returns the live simulation state. Callers must not mutate it
// while a Run is in progress.
func (s *Session) State() *motion.State { return s.state }

// Samples returns the buffered samples for the current run, oldest-first.
func (s *Session) Samples() []recorder.Sample { return s.ring.Snapshot() }

// Result returns the terminal result, or nil while the run continues.
func (s *Session) Result() *Result { return s.result }

// Run drives the session headlessly at the given frame interval until the
// run ends or ctx is cancelled. Cancellation is between-frame only.
func (s *Session) Run(ctx context.Context, frameInterval time.Duration) (*Result, error) {
	if frameInterval <= 0 {
		return nil, fmt.Errorf("frame interval must be > 0, got %v", frameInterval)
	}
	elapsed := frameInterval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if !s.Frame(elapsed) {
			return s.result, nil
		}
	}
}

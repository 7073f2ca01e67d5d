// Package fuzzy implements a Mamdani-style fuzzy inference controller
// mapping (speed, distance-to-obstacle) to a brake intensity in [0,1].
//
// Inference is the standard Mamdani pipeline: fuzzify both inputs, take
// min over each rule's antecedents, max-aggregate activations per output
// label, clip the output membership shapes at their activations, and
// defuzzify by discrete centroid over the brake variable's support.
package fuzzy

import (
	"fmt"
	"sync"
)

// DefaultResolution is the number of sample points used for centroid
// defuzzification. It is a precision/performance knob, not a correctness
// requirement.
const DefaultResolution = 200

// Rule maps a (distance, speed) antecedent pair to a brake consequent.
// Labels refer to membership names in the respective variables.
type Rule struct {
	Distance string `json:"distance"`
	Speed    string `json:"speed"`
	Brake    string `json:"brake"`
}

// ControllerConfig is the full controller definition: the three linguistic
// variables plus the rule base. It is replaced as a whole; there is no
// partial-update API.
type ControllerConfig struct {
	Speed    LinguisticVariable `json:"speed"`
	Distance LinguisticVariable `json:"distance"`
	Brake    LinguisticVariable `json:"brake"`
	Rules    []Rule             `json:"rules"`
}

// Clone returns a deep copy of the config.
func (c *ControllerConfig) Clone() *ControllerConfig {
	out := &ControllerConfig{
		Speed:    c.Speed.clone(),
		Distance: c.Distance.clone(),
		Brake:    c.Brake.clone(),
	}
	out.Rules = make([]Rule, len(c.Rules))
	copy(out.Rules, c.Rules)
	return out
}

// Validate checks that every rule label resolves to a membership name.
// Breakpoint monotonicity inside shapes is an unchecked precondition.
func (c *ControllerConfig) Validate() error {
	names := func(v LinguisticVariable) map[string]bool {
		set := make(map[string]bool, len(v.Members))
		for _, m := range v.Members {
			set[m.Name] = true
		}
		return set
	}
	dist, speed, brake := names(c.Distance), names(c.Speed), names(c.Brake)
	for i, r := range c.Rules {
		if !dist[r.Distance] {
			return fmt.Errorf("rule %d: unknown distance label %q", i, r.Distance)
		}
		if !speed[r.Speed] {
			return fmt.Errorf("rule %d: unknown speed label %q", i, r.Speed)
		}
		if !brake[r.Brake] {
			return fmt.Errorf("rule %d: unknown brake label %q", i, r.Brake)
		}
	}
	return nil
}

// Infer runs one Mamdani inference pass and returns a brake intensity in
// [0,1]. It is pure and deterministic for a fixed config: identical inputs
// produce bit-identical results. When no rule fires (zero centroid
// denominator) the result is 0 by contract, never NaN.
func Infer(speed, distance float64, cfg *ControllerConfig, resolution int) float64 {
	if resolution < 2 {
		resolution = DefaultResolution
	}

	speedDeg := cfg.Speed.Fuzzify(speed)
	distDeg := cfg.Distance.Fuzzify(distance)

	// Rule evaluation: AND = min over antecedents, OR = max across rules
	// sharing a consequent label. Evaluation order is irrelevant because
	// max is commutative.
	activation := make(map[string]float64, len(cfg.Brake.Members))
	for _, r := range cfg.Rules {
		act := distDeg[r.Distance]
		if s := speedDeg[r.Speed]; s < act {
			act = s
		}
		if act > activation[r.Brake] {
			activation[r.Brake] = act
		}
	}

	lo, hi, ok := cfg.Brake.Bounds()
	if !ok || hi <= lo {
		return 0
	}

	// Discrete centroid over the aggregated (clipped) output shape.
	step := (hi - lo) / float64(resolution-1)
	var num, den float64
	for i := 0; i < resolution; i++ {
		x := lo + float64(i)*step
		var mu float64
		for _, m := range cfg.Brake.Members {
			g := m.Shape.Grade(x)
			if a := activation[m.Name]; g > a {
				g = a
			}
			if g > mu {
				mu = g
			}
		}
		num += x * mu
		den += mu
	}
	if den == 0 {
		return 0
	}
	out := num / den
	if out < 0 {
		return 0
	}
	if out > 1 {
		return 1
	}
	return out
}

// Engine owns a replaceable controller configuration. Replacement is
// atomic: an inference call snapshots the config pointer once and never
// mixes data from two configurations. The zero value is not usable; use
// NewEngine.
type Engine struct {
	mu         sync.RWMutex
	cfg        *ControllerConfig
	resolution int
}

// NewEngine creates an engine with the given config and the default
// defuzzification resolution. A nil config selects DefaultConfig.
func NewEngine(cfg *ControllerConfig) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg, resolution: DefaultResolution}
}

// SetResolution overrides the defuzzification sample count.
func (e *Engine) SetResolution(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n >= 2 {
		e.resolution = n
	}
}

// Infer maps (speed, distance) to a brake intensity using the current config.
func (e *Engine) Infer(speed, distance float64) float64 {
	e.mu.RLock()
	cfg, res := e.cfg, e.resolution
	e.mu.RUnlock()
	return Infer(speed, distance, cfg, res)
}

// SetConfig replaces the whole configuration. The engine keeps its own
// deep copy so later caller mutations cannot leak into inference.
func (e *Engine) SetConfig(cfg *ControllerConfig) error {
	if cfg == nil {
		return fmt.Errorf("nil controller config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	clone := cfg.Clone()
	e.mu.Lock()
	e.cfg = clone
	e.mu.Unlock()
	return nil
}

// Config returns a deep copy of the current configuration, so the caller
// cannot alias and mutate engine-internal state.
func (e *Engine) Config() *ControllerConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.Clone()
}

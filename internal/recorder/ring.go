// Package recorder collects per-step simulation samples in a fixed-size
// ring buffer and derives run summaries and CSV exports from them.
package recorder

// Sample is one per-substep observation pushed after every integrator step.
type Sample struct {
	T        float64 `json:"t"`        // elapsed simulation time, s
	X        float64 `json:"x"`        // position, m
	V        float64 `json:"v"`        // velocity, m/s
	A        float64 `json:"a"`        // acceleration, m/s²
	Brake    float64 `json:"brake"`    // commanded brake intensity [0,1]
	Distance float64 `json:"distance"` // distance to obstacle, m
}

// Ring maintains a sliding window of the most recent samples.
type Ring struct {
	samples  []Sample
	capacity int
	head     int // next write position
	size     int // current number of samples stored
	total    int // samples ever pushed, including overwritten ones
}

// NewRing creates a ring buffer with the specified capacity.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 4096 // default window
	}
	return &Ring{
		samples:  make([]Sample, capacity),
		capacity: capacity,
	}
}

// Push stores a new sample, overwriting the oldest if at capacity.
func (r *Ring) Push(s Sample) {
	r.samples[r.head] = s
	r.head = (r.head + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}
	r.total++
}

// Len returns the current number of samples in the window.
func (r *Ring) Len() int { return r.size }

// Total returns the number of samples ever pushed, including those that
// have since been overwritten.
func (r *Ring) Total() int { return r.total }

// Capacity returns the maximum number of samples that can be stored.
func (r *Ring) Capacity() int { return r.capacity }

// Latest returns the sample n steps back from the most recent.
// Latest(1) is the most recently pushed sample. ok is false when the
// requested sample does not exist.
func (r *Ring) Latest(n int) (Sample, bool) {
	if n < 1 || n > r.size {
		return Sample{}, false
	}
	idx := (r.head - n + r.capacity) % r.capacity
	return r.samples[idx], true
}

// Snapshot returns the buffered samples oldest-first as a fresh slice.
func (r *Ring) Snapshot() []Sample {
	out := make([]Sample, 0, r.size)
	start := (r.head - r.size + r.capacity) % r.capacity
	for i := 0; i < r.size; i++ {
		out = append(out, r.samples[(start+i)%r.capacity])
	}
	return out
}

// Reset clears the window without reallocating.
func (r *Ring) Reset() {
	r.head = 0
	r.size = 0
	r.total = 0
}

// Package series keeps a fixed-capacity rolling history of one sampled quantity.
//
// A Series always exposes its full capacity: slots that have not been written yet
// hold the neutral value 0 so a renderer can plot a full-width array from the first tick.
package series

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig marks programmer or configuration errors (non-positive capacity,
// non-positive plot bound). They are not recoverable at runtime.
var ErrInvalidConfig = errors.New("invalid config")

// Neutral is the value unfilled slots hold.
const Neutral = 0.0

type Series struct {
	samples []float64
	count   int
	min     float64
	max     float64
}

func New(capacity int) (*Series, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("series capacity must be positive, got %d: %w", capacity, ErrInvalidConfig)
	}
	s := &Series{
		samples: make([]float64, capacity),
		min:     math.Inf(1),
		max:     math.Inf(-1),
	}
	for i := range s.samples {
		s.samples[i] = Neutral
	}
	return s, nil
}

// Append stores v as the newest sample. Once the series is full the oldest sample is
// dropped and the rest shift one slot toward index 0.
// v must be finite; filtering is the caller's job.
func (s *Series) Append(v float64) {
	n := len(s.samples)
	if s.count < n {
		s.samples[s.count] = v
		s.count++
	} else {
		copy(s.samples[:n-1], s.samples[1:])
		s.samples[n-1] = v
	}
	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
}

// Snapshot returns a copy of all Cap() slots, oldest first. Slots at Len() and beyond
// still hold Neutral.
func (s *Series) Snapshot() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

// Extrema returns the lifetime min and max. Evicted samples still count.
// Before the first Append they are +Inf and -Inf.
func (s *Series) Extrema() (min, max float64) {
	return s.min, s.max
}

func (s *Series) Len() int { return s.count }

func (s *Series) Cap() int { return len(s.samples) }

func (s *Series) Full() bool { return s.count == len(s.samples) }

// Last returns the newest sample, if any.
func (s *Series) Last() (float64, bool) {
	if s.count == 0 {
		return 0, false
	}
	return s.samples[s.count-1], true
}

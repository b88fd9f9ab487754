package sensor

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// Simulated produces a bounded random walk around indoor conditions. With failEvery > 0
// every failEvery-th read fails.
type Simulated struct {
	rng       *rand.Rand
	failEvery int
	reads     int
	cur       Reading
}

func NewSimulated(seed int64, failEvery int) *Simulated {
	return &Simulated{
		rng:       rand.New(rand.NewSource(seed)),
		failEvery: failEvery,
		cur:       Reading{Temperature: 21, Humidity: 45},
	}
}

func (s *Simulated) Read(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	s.reads++
	if s.failEvery > 0 && s.reads%s.failEvery == 0 {
		return Reading{}, fmt.Errorf("simulated read %d: %w", s.reads, ErrRead)
	}
	s.cur.Temperature = clamp(s.cur.Temperature+s.rng.NormFloat64()*0.3, -10, 45)
	s.cur.Humidity = clamp(s.cur.Humidity+s.rng.NormFloat64()*0.8, 0, 100)
	return s.cur, nil
}

func (s *Simulated) Close() error { return nil }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

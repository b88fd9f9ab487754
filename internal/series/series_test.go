package series

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestNew_invalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1, -200} {
		s, err := New(c)
		if err == nil {
			t.Fatalf("New(%d) error = nil; want ErrInvalidConfig", c)
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(%d) error = %v; want ErrInvalidConfig", c, err)
		}
		if s != nil {
			t.Errorf("New(%d) = %v; want nil series", c, s)
		}
	}
}

func TestNew_initialState(t *testing.T) {
	s, err := New(4)
	if err != nil {
		t.Fatalf("New(4) error = %v", err)
	}
	if s.Len() != 0 || s.Cap() != 4 || s.Full() {
		t.Errorf("Len/Cap/Full = %d/%d/%v; want 0/4/false", s.Len(), s.Cap(), s.Full())
	}
	if got := s.Snapshot(); !reflect.DeepEqual(got, []float64{0, 0, 0, 0}) {
		t.Errorf("Snapshot() = %v; want all neutral", got)
	}
	min, max := s.Extrema()
	if !math.IsInf(min, 1) || !math.IsInf(max, -1) {
		t.Errorf("Extrema() = %v, %v; want +Inf, -Inf sentinels", min, max)
	}
	if _, ok := s.Last(); ok {
		t.Error("Last() ok = true on empty series")
	}
}

func TestAppend_partialFillKeepsNeutralTail(t *testing.T) {
	s, _ := New(5)
	s.Append(3)
	s.Append(-2)

	if got, want := s.Snapshot(), []float64{3, -2, 0, 0, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v; want %v", got, want)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d; want 2", s.Len())
	}
	if v, ok := s.Last(); !ok || v != -2 {
		t.Errorf("Last() = %v, %v; want -2, true", v, ok)
	}
}

func TestAppend_evictsOldestWhenFull(t *testing.T) {
	s, _ := New(5)
	for _, v := range []float64{10, 20, 30, 40, 50} {
		s.Append(v)
	}
	if !s.Full() {
		t.Fatal("Full() = false after capacity appends")
	}
	s.Append(60)

	if got, want := s.Snapshot(), []float64{20, 30, 40, 50, 60}; !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v; want %v", got, want)
	}
	min, max := s.Extrema()
	if min != 10 || max != 60 {
		t.Errorf("Extrema() = %v, %v; want 10, 60", min, max)
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d; want 5", s.Len())
	}
}

func TestAppend_capacityOne(t *testing.T) {
	s, _ := New(1)
	s.Append(1)
	s.Append(2)
	if got := s.Snapshot(); !reflect.DeepEqual(got, []float64{2}) {
		t.Errorf("Snapshot() = %v; want [2]", got)
	}
}

func TestAppend_matchesMostRecentWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, capacity := range []int{1, 2, 5, 17, 200} {
		s, _ := New(capacity)
		var all []float64
		for i := 0; i < capacity*3+1; i++ {
			v := rng.Float64()*80 - 20
			all = append(all, v)
			s.Append(v)

			got := s.Snapshot()
			if len(got) != capacity {
				t.Fatalf("cap %d: len(Snapshot()) = %d; want %d", capacity, len(got), capacity)
			}
			if len(all) >= capacity {
				want := all[len(all)-capacity:]
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("cap %d after %d appends: Snapshot() = %v; want %v", capacity, len(all), got, want)
				}
			}
		}

		wantMin, wantMax := math.Inf(1), math.Inf(-1)
		for _, v := range all {
			wantMin = math.Min(wantMin, v)
			wantMax = math.Max(wantMax, v)
		}
		min, max := s.Extrema()
		if min != wantMin || max != wantMax {
			t.Errorf("cap %d: Extrema() = %v, %v; want %v, %v", capacity, min, max, wantMin, wantMax)
		}
	}
}

func TestSnapshot_isACopy(t *testing.T) {
	s, _ := New(3)
	s.Append(1)
	snap := s.Snapshot()
	snap[0] = 99
	if got := s.Snapshot()[0]; got != 1 {
		t.Errorf("series mutated through snapshot: got %v; want 1", got)
	}
}

package source

import (
	"errors"
	"time"
)

// ErrCounterWrap indicates that a polled counter has wrapped around.
var ErrCounterWrap = errors.New("counter wrap detected")

// CounterSample holds one raw counter reading at a point in time.
type CounterSample struct {
	Value     uint64
	Timestamp time.Time
}

// CalculateRate computes the per-second rate between two counter samples.
// Returns ErrCounterWrap if the counter has decreased.
func CalculateRate(prev, curr CounterSample) (float64, error) {
	elapsed := curr.Timestamp.Sub(prev.Timestamp).Seconds()
	if elapsed <= 0 {
		return 0, errors.New("zero or negative elapsed time")
	}
	if curr.Value < prev.Value {
		return 0, ErrCounterWrap
	}
	return float64(curr.Value-prev.Value) / elapsed, nil
}

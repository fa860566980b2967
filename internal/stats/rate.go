// Package stats measures how fast generations arrive at an observer.
package stats

import "time"

const window = 8

// Rate estimates generations per second from the most recent observations.
// It is not safe for concurrent use; each viewer owns one.
type Rate struct {
	gens  [window]int
	times [window]time.Time
	n     int
}

// NewRate returns an empty meter.
func NewRate() *Rate { return &Rate{} }

// Observe records that generation gen was seen at now. Observations with a
// generation lower than the previous one reset the meter.
func (r *Rate) Observe(gen int, now time.Time) {
	if r.n > 0 && gen < r.gens[(r.n-1)%window] {
		r.n = 0
	}
	r.gens[r.n%window] = gen
	r.times[r.n%window] = now
	r.n++
}

// PerSecond returns the average generation rate over the window, or 0 until
// two observations span a positive duration.
func (r *Rate) PerSecond() float64 {
	if r.n < 2 {
		return 0
	}
	last := (r.n - 1) % window
	first := 0
	if r.n > window {
		first = r.n % window
	}
	elapsed := r.times[last].Sub(r.times[first])
	if elapsed <= 0 {
		return 0
	}
	return float64(r.gens[last]-r.gens[first]) / elapsed.Seconds()
}

// Reset clears all observations.
func (r *Rate) Reset() { r.n = 0 }

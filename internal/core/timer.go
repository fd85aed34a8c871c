package core

import "time"

// FixedStep paces generations at a steady interval independent of how often
// the caller polls it.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep that fires once per step. The first
// poll fires immediately.
func NewFixedStep(step time.Duration) *FixedStep {
	fs := &FixedStep{}
	fs.SetStep(step)
	fs.accumulator = fs.step
	return fs
}

// SetStep changes the interval. Non-positive values fire on every poll.
func (f *FixedStep) SetStep(step time.Duration) {
	if step < 0 {
		step = 0
	}
	f.step = step
}

// Step returns the current interval.
func (f *FixedStep) Step() time.Duration { return f.step }

// ShouldStep reports whether a generation is due at now.
func (f *FixedStep) ShouldStep(now time.Time) bool {
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		// Polling too slowly must not queue a burst of catch-up steps.
		if f.accumulator > f.step {
			f.accumulator = f.step
		}
		return true
	}
	return false
}

// Reset drops any accumulated time, e.g. after resuming from pause.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}

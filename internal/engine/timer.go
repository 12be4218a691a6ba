package engine

import "time"

// Timer is a one-shot countdown advanced by frame deltas.
type Timer struct {
	duration time.Duration
	elapsed  time.Duration

	finished     bool
	justFinished bool
}

// NewTimer creates a new timer
func NewTimer(duration time.Duration) Timer {
	return Timer{duration: duration}
}

// SecondsToDuration converts a frame delta in seconds to a time.Duration.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Tick adds the given amount of time to the Timer.
func (t *Timer) Tick(delta time.Duration) *Timer {
	t.justFinished = false

	if t.finished {
		// nothing to do, timer is done
		return t
	}

	t.elapsed += delta

	if t.elapsed >= t.duration {
		t.elapsed = t.duration
		t.finished = true
		t.justFinished = true
	}

	return t
}

// Duration returns the configured duration of the Timer.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Elapsed returns the already elapsed time of the Timer.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Remaining returns the remaining time of the Timer.
func (t *Timer) Remaining() time.Duration {
	return t.duration - t.elapsed
}

// Finished returns true if the timer has finished.
func (t *Timer) Finished() bool {
	return t.finished
}

// JustFinished returns true if the timer has reached its duration at the previous call to Tick.
func (t *Timer) JustFinished() bool {
	return t.justFinished
}

// Reset resets the timer back to its starting point.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.justFinished = false
}

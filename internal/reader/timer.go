package reader

import "time"

// Timer accumulates active reading time across start/stop cycles.
type Timer struct {
	now     func() time.Time
	started time.Time
	total   time.Duration
	active  bool
}

// NewTimer returns a stopped timer using the wall clock.
func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// Start begins accumulating time. Starting an active timer is a no-op.
func (t *Timer) Start() {
	if t.active {
		return
	}
	t.started = t.now()
	t.active = true
}

// Stop pauses accumulation.
func (t *Timer) Stop() {
	if !t.active {
		return
	}
	t.total += t.now().Sub(t.started)
	t.active = false
}

// Reset clears the accumulated time, keeping the running state.
func (t *Timer) Reset() {
	t.total = 0
	if t.active {
		t.started = t.now()
	}
}

// Active reports whether the timer is running.
func (t *Timer) Active() bool {
	return t.active
}

// Elapsed returns the accumulated time including the current run.
func (t *Timer) Elapsed() time.Duration {
	if t.active {
		return t.total + t.now().Sub(t.started)
	}
	return t.total
}

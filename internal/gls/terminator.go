package gls

import (
	"sync/atomic"
	"time"
)

// Terminator is the cancellation abstraction consulted at every loop
// boundary of the Separator and Orchestrator (§5: "Cancellation"). It is
// cheap to clone (a shared atomic flag plus an optional deadline) so every
// worker and phase can carry its own copy without coordinating on a lock.
type Terminator struct {
	killed   *atomic.Bool
	deadline time.Time // zero means "no deadline"
}

// NewTerminator returns a Terminator with no deadline and not killed.
func NewTerminator() Terminator {
	return Terminator{killed: &atomic.Bool{}}
}

// WithDeadline returns a copy of t carrying the given deadline, sharing the
// same kill flag.
func (t Terminator) WithDeadline(deadline time.Time) Terminator {
	t.deadline = deadline
	return t
}

// WithTimeout is a convenience wrapper over WithDeadline.
func (t Terminator) WithTimeout(d time.Duration) Terminator {
	return t.WithDeadline(time.Now().Add(d))
}

// Kill reports whether the terminator has fired: either the deadline has
// passed, or Stop was called (e.g. from a Ctrl-C handler).
func (t Terminator) Kill() bool {
	if t.killed != nil && t.killed.Load() {
		return true
	}
	return !t.deadline.IsZero() && time.Now().After(t.deadline)
}

// Deadline returns the terminator's deadline and whether one is set.
func (t Terminator) Deadline() (time.Time, bool) {
	return t.deadline, !t.deadline.IsZero()
}

// ElapsedFraction reports how much of [since, deadline) has elapsed, in
// [0,1]; 0 if there's no deadline. Used by time-based decay schedules that
// need to taper smoothly across a remaining budget.
func (t Terminator) ElapsedFraction(since time.Time) float64 {
	if t.deadline.IsZero() {
		return 0
	}
	total := t.deadline.Sub(since)
	if total <= 0 {
		return 1
	}
	frac := time.Since(since).Seconds() / total.Seconds()
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// Stop flips the shared kill flag; every Terminator cloned from the same
// root observes it immediately.
func (t Terminator) Stop() {
	if t.killed != nil {
		t.killed.Store(true)
	}
}

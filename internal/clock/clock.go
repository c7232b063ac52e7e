// Package clock schedules frame and delayed callbacks for the playback
// driver. Every scheduled callback returns a Handle; canceling a handle that
// already fired or was already canceled does nothing.
package clock

import (
	"sync/atomic"
	"time"
)

// Callback receives the scheduler's notion of now when it fires.
type Callback func(now time.Time)

// Scheduler is the host side of the animation loop.
type Scheduler interface {
	Now() time.Time
	// RequestFrame runs fn once on the next display frame.
	RequestFrame(fn Callback) *Handle
	// After runs fn once, d after now.
	After(d time.Duration, fn Callback) *Handle
}

// Handle is a pending callback.
type Handle struct {
	done atomic.Bool
	stop func() bool
}

// Cancel prevents the callback from running. It is safe on a nil handle and
// safe to call more than once.
func (h *Handle) Cancel() {
	if h == nil || h.done.Swap(true) {
		return
	}
	if h.stop != nil {
		h.stop()
	}
}

// Done reports whether the callback fired or was canceled.
func (h *Handle) Done() bool {
	return h == nil || h.done.Load()
}

// claim marks the handle fired. It reports false if it was canceled first.
func (h *Handle) claim() bool {
	return !h.done.Swap(true)
}

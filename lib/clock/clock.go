// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the seam between vgastream's time-dependent code and the
// time package. Anything that would otherwise call time.Now,
// time.After, time.NewTicker, time.AfterFunc, or time.Sleep should
// instead hold a Clock (a field, or a constructor parameter) and call
// through it.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep pauses the calling goroutine for at least d.
	Sleep(d time.Duration)

	// After delivers the current time on the returned channel once d
	// has elapsed. d <= 0 delivers immediately.
	After(d time.Duration) <-chan time.Time

	// AfterFunc runs f after d elapses and returns a Timer that can
	// cancel the pending call via Stop. The Timer's C field is always
	// nil (AfterFunc timers have no channel to read). d <= 0 runs f
	// right away — in a new goroutine for Real, synchronously for Fake.
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker returns a Ticker delivering ticks on C every d. Panics
	// if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Ticker delivers recurring ticks on C until Stop is called. C has
// capacity 1; a tick is dropped rather than queued if the reader has
// not drained the previous one.
type Ticker struct {
	C <-chan time.Time

	stopFunc  func()
	resetFunc func(time.Duration)
}

// Stop ends the ticker. No further ticks are sent on C; C itself is
// never closed.
func (t *Ticker) Stop() { t.stopFunc() }

// Reset restarts the tick cycle at a new interval.
func (t *Ticker) Reset(d time.Duration) { t.resetFunc(d) }

// Timer represents a single pending AfterFunc call. C is always nil —
// AfterFunc callers get notified via the callback, not a channel.
type Timer struct {
	C <-chan time.Time

	stopFunc  func() bool
	resetFunc func(time.Duration) bool
}

// Stop cancels the timer. It reports whether the cancellation
// happened before the timer fired.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Reset reschedules the timer to fire after d, counting from now. It
// reports whether the timer was still pending before the reset.
func (t *Timer) Reset(d time.Duration) bool { return t.resetFunc(d) }

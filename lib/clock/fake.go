// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a Clock whose time only moves when Advance is called.
// Sleep, After, NewTicker, and AfterFunc all register a pending wait
// against the fake timeline instead of touching a real timer.
//
// Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*wait
	added   *sync.Cond
}

// wait is one registered Sleep/After/AfterFunc/NewTicker call, pending
// until the fake clock advances past its deadline.
type wait struct {
	deadline time.Time
	interval time.Duration // non-zero for a ticker; reschedules on fire

	deliver  chan time.Time // set for Sleep/After/ticker waits
	callback func()         // set for AfterFunc waits

	stopped bool
	fired   bool // one-shot waits only; guards against double-fire
}

// Fake returns a FakeClock starting at initial. Nothing fires until
// Advance moves it forward.
func Fake(initial time.Time) *FakeClock {
	fc := &FakeClock{now: initial}
	fc.added = sync.NewCond(&fc.mu)
	return fc
}

// Now returns the fake clock's current time.
func (fc *FakeClock) Now() time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.now
}

// Sleep blocks the caller until the clock advances past d from now.
// d <= 0 returns immediately.
func (fc *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-fc.After(d)
}

// After returns a channel that fires once Advance crosses d from now.
// d <= 0 returns an already-fired channel without registering a wait.
func (fc *FakeClock) After(d time.Duration) <-chan time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- fc.now
		return ch
	}
	fc.register(&wait{deadline: fc.now.Add(d), deliver: ch})
	return ch
}

// AfterFunc schedules f to run once Advance crosses d from now. The
// returned Timer's C is nil; f runs synchronously inside the Advance
// call that fires it. d <= 0 runs f synchronously before AfterFunc
// returns.
func (fc *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	fc.mu.Lock()
	if d <= 0 {
		fc.mu.Unlock()
		f()
		return &Timer{
			stopFunc:  func() bool { return false },
			resetFunc: func(time.Duration) bool { return false },
		}
	}
	defer fc.mu.Unlock()

	w := &wait{deadline: fc.now.Add(d), callback: f}
	fc.register(w)

	return &Timer{
		stopFunc: func() bool {
			fc.mu.Lock()
			defer fc.mu.Unlock()
			if w.stopped || w.fired {
				return false
			}
			w.stopped = true
			return true
		},
		resetFunc: func(d time.Duration) bool {
			fc.mu.Lock()
			defer fc.mu.Unlock()
			wasPending := !w.stopped && !w.fired
			w.stopped, w.fired = false, false
			w.deadline = fc.now.Add(d)
			if !wasPending {
				fc.register(w)
			}
			return wasPending
		},
	}
}

// NewTicker returns a Ticker whose C receives the fake time once per
// interval d of fake time elapsed. Panics if d <= 0.
func (fc *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: NewTicker requires a positive interval")
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	ch := make(chan time.Time, 1)
	w := &wait{deadline: fc.now.Add(d), interval: d, deliver: ch}
	fc.register(w)

	return &Ticker{
		C: ch,
		stopFunc: func() {
			fc.mu.Lock()
			defer fc.mu.Unlock()
			w.stopped = true
		},
		resetFunc: func(d time.Duration) {
			fc.mu.Lock()
			defer fc.mu.Unlock()
			w.interval = d
			w.deadline = fc.now.Add(d)
			w.stopped = false
		},
	}
}

// Advance moves the fake clock forward by d and fires, in deadline
// order, every pending wait whose deadline now falls at or before the
// new time. AfterFunc callbacks run synchronously on the calling
// goroutine; channel sends for Sleep/After/ticker waits are
// non-blocking, so a reader that hasn't drained the channel yet just
// misses that delivery. Tickers that span more than one interval in a
// single Advance fire once per interval crossed.
func (fc *FakeClock) Advance(d time.Duration) {
	fc.mu.Lock()
	fc.now = fc.now.Add(d)
	target := fc.now
	fc.mu.Unlock()

	for {
		due := fc.collectDue(target)
		if len(due) == 0 {
			return
		}
		sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
		for _, w := range due {
			switch {
			case w.callback != nil:
				w.callback()
			case w.deliver != nil:
				select {
				case w.deliver <- target:
				default:
				}
			}
		}
	}
}

// WaitForTimers blocks until at least n waits are registered and not
// yet fired or stopped. A test calls this after starting a goroutine
// that's expected to Sleep/After/AfterFunc/NewTicker, so the following
// Advance is guaranteed to see that registration rather than racing it.
func (fc *FakeClock) WaitForTimers(n int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for fc.activeCountLocked() < n {
		fc.added.Wait()
	}
}

// PendingCount returns the number of active (registered, not stopped
// or fired) waits.
func (fc *FakeClock) PendingCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.activeCountLocked()
}

// register adds w to the pending list and wakes any WaitForTimers
// caller. Must be called with fc.mu held.
func (fc *FakeClock) register(w *wait) {
	fc.pending = append(fc.pending, w)
	fc.added.Broadcast()
}

// collectDue removes every non-stopped wait whose deadline has arrived,
// reschedules tickers among them for their next interval, and returns
// the ones that should fire. Acquires fc.mu itself.
func (fc *FakeClock) collectDue(target time.Time) []*wait {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var due, rest []*wait
	for _, w := range fc.pending {
		if w.stopped {
			continue
		}
		if !w.deadline.After(target) {
			due = append(due, w)
		} else {
			rest = append(rest, w)
		}
	}
	for _, w := range due {
		if w.interval > 0 {
			w.deadline = w.deadline.Add(w.interval)
			rest = append(rest, w)
		} else {
			w.fired = true
		}
	}
	fc.pending = rest
	return due
}

// activeCountLocked counts non-stopped waits. Caller must hold fc.mu.
func (fc *FakeClock) activeCountLocked() int {
	count := 0
	for _, w := range fc.pending {
		if !w.stopped {
			count++
		}
	}
	return count
}

// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock injects time so the code in stream can be tested
// without a real timer or a real wall clock.
//
// stream.Stream's background I/O goroutine sleeps after each accept
// attempt that finds no client; rather than call time.Sleep
// directly, it holds a Clock field (Config.Clock, defaulting to
// Real()) and calls clock.Sleep. A test swaps in Fake() to drive that
// sleep deterministically instead of racing against a real 50ms idle
// timer.
//
// # Wiring a Clock into a struct
//
//	type Stream struct {
//	    cfg Config // cfg.Clock is a clock.Clock
//	}
//
// Production leaves Config.Clock nil and gets Real() via
// Config.withDefaults(). A test constructs its own:
//
//	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	cfg := Config{Clock: fc}
//	// ... start the I/O goroutine ...
//	fc.WaitForTimers(1)        // block until it registers a sleep
//	fc.Advance(50 * time.Millisecond)
//
// # Why WaitForTimers exists
//
// A goroutine that calls Sleep, After, NewTicker, or AfterFunc on a
// FakeClock registers a pending waiter rather than blocking on a real
// timer. Calling Advance before that registration happens would race:
// the goroutine might not have reached the Sleep call yet. WaitForTimers
// blocks the test until the expected number of waiters are registered,
// so Advance always fires a real, already-pending waiter instead of
// getting lost.
package clock

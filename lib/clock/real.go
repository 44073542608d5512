// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// systemClock is the production Clock: a thin pass-through to the
// time package.
type systemClock struct{}

// Real returns a Clock backed by the standard time package. This is
// what every production stream.Config defaults to.
func Real() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (systemClock) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stopFunc: t.Stop, resetFunc: t.Reset}
}

func (systemClock) NewTicker(d time.Duration) *Ticker {
	t := time.NewTicker(d)
	return &Ticker{C: t.C, stopFunc: t.Stop, resetFunc: t.Reset}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"context"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Clock is a monotonic time source with at least microsecond resolution.
//
// Bit-banged protocols encode data in pulse widths of a few microseconds, so
// the drivers poll a Clock instead of relying on OS timers or edge
// interrupts. Tests inject a simulated Clock.
type Clock interface {
	// Now returns the time elapsed since an arbitrary but fixed origin.
	Now() time.Duration
	// Sleep blocks for at least d.
	Sleep(d time.Duration)
}

// SystemClock is the Clock backed by the runtime monotonic clock.
var SystemClock Clock = systemClock{}

// spinLimit is the shortest wait handed to the scheduler. Shorter waits
// spin.
const spinLimit = time.Millisecond

var origin = time.Now()

type systemClock struct{}

func (systemClock) Now() time.Duration {
	return time.Since(origin)
}

func (c systemClock) Sleep(d time.Duration) {
	if d >= spinLimit {
		time.Sleep(d)
		return
	}
	Hold(c, d)
}

// SleepContext blocks for d or until ctx is done.
func (systemClock) SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// sleep pauses for d on c. Clocks that also implement
// SleepContext(context.Context, time.Duration) error wake up early when ctx
// is done.
func sleep(ctx context.Context, c Clock, d time.Duration) {
	if s, ok := c.(interface {
		SleepContext(context.Context, time.Duration) error
	}); ok {
		_ = s.SleepContext(ctx, d)
		return
	}
	c.Sleep(d)
}

// PinErr returns the pending I/O error of p, for pins that report failed
// reads through an Err() error method, and nil otherwise.
func PinErr(p any) error {
	if e, ok := p.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

// Hold busy-waits until d has elapsed on c.
func Hold(c Clock, d time.Duration) {
	end := c.Now() + d
	for c.Now() < end {
	}
}

// WaitForLevel polls p until it reads l or timeout elapses. It returns the
// time spent waiting and true if the level was seen.
//
// The elapsed time is the measured pulse width when called right after the
// opposite edge, which is how single-wire bits are decoded.
func WaitForLevel(c Clock, p gpio.PinIn, l gpio.Level, timeout time.Duration) (time.Duration, bool) {
	start := c.Now()
	for {
		if p.Read() == l {
			return c.Now() - start, true
		}
		if elapsed := c.Now() - start; elapsed > timeout {
			return elapsed, false
		}
	}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wiretest is meant to be used to test drivers that bit-bang a
// protocol over GPIO pins.
//
// Clock is a deterministic time source: it only moves when it is read or
// slept on, so busy-wait loops in the driver advance simulated time by a
// fixed step per iteration. Pin records what the driver drives and answers
// reads from a callback, which lets a test model a chip or replay a captured
// waveform without hardware.
package wiretest

import (
	"sync"
	"time"
)

// DefaultStep is the time that elapses on each Clock.Now call when Step is
// zero.
const DefaultStep = time.Microsecond

// Clock is a simulated monotonic clock.
//
// Every call to Now advances the time by Step. Sleep advances by the requested
// duration.
type Clock struct {
	// Step is the time that passes on each call to Now.
	Step time.Duration

	mu sync.Mutex
	t  time.Duration
}

// Now advances the clock by one step and returns the new time.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Step > 0 {
		c.t += c.Step
	} else {
		c.t += DefaultStep
	}
	return c.t
}

// Sleep advances the clock by d without blocking.
func (c *Clock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.t += d
	c.mu.Unlock()
}

// Elapsed returns the current time without advancing the clock.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

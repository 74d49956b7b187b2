// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiretest

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Segment is a level held on the line for Dur.
type Segment struct {
	L   gpio.Level
	Dur time.Duration
}

// Duration returns the total length of segs.
func Duration(segs []Segment) time.Duration {
	var d time.Duration
	for _, s := range segs {
		d += s.Dur
	}
	return d
}

// NewWaveform returns a Pin that emulates a device answering on a shared
// line.
//
// Each time the host switches the pin to input after driving it, the next
// play is replayed against c starting at that instant. Switching to input
// without driving first, as a driver does when parking the line, starts
// nothing. After the last segment the line sits at idle. Once all plays are
// used the last one is repeated; with no plays the line is always idle.
func NewWaveform(c *Clock, idle gpio.Level, plays ...[]Segment) *Pin {
	w := &waveform{clock: c, idle: idle, plays: plays}
	return &Pin{
		N:        "waveform",
		Clock:    c,
		ReadFunc: w.level,
		OnOut:    w.arm,
		OnIn:     w.begin,
	}
}

type waveform struct {
	clock *Clock
	idle  gpio.Level
	plays [][]Segment

	mu    sync.Mutex
	armed bool
	next  int
	cur   []Segment
	start time.Duration
}

func (w *waveform) arm(gpio.Level) {
	w.mu.Lock()
	w.armed = true
	w.mu.Unlock()
}

func (w *waveform) begin(gpio.Pull) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.armed {
		return
	}
	w.armed = false
	w.start = w.clock.Elapsed()
	w.cur = nil
	if len(w.plays) == 0 {
		return
	}
	w.cur = w.plays[min(w.next, len(w.plays)-1)]
	w.next++
}

func (w *waveform) level() gpio.Level {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := w.clock.Elapsed() - w.start
	for _, s := range w.cur {
		if t < s.Dur {
			return s.L
		}
		t -= s.Dur
	}
	return w.idle
}

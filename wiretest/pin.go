// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiretest

import (
	"errors"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Write is one level driven by the host on a Pin.
type Write struct {
	L  gpio.Level
	At time.Duration
}

// Pin is a gpio.PinIO that records the host's activity.
//
// When the pin is an output Read returns the last level written. When it is
// an input Read returns ReadFunc() if set, else L.
type Pin struct {
	N   string
	Num int
	// Clock timestamps writes. It may be nil.
	Clock *Clock
	// ReadFunc supplies the level seen by the host while the pin is an
	// input.
	ReadFunc func() gpio.Level
	// OnOut is called after each Out with the level written. It runs with
	// the pin unlocked so it may read other pins.
	OnOut func(l gpio.Level)
	// OnIn is called after each successful In.
	OnIn func(pull gpio.Pull)
	// Fail is returned by In and Out when set.
	Fail error
	// ReadErr is latched by every Read while set and reported once by Err,
	// the way a character device pin reports a failed line read.
	ReadErr error

	mu     sync.Mutex
	err    error
	l      gpio.Level
	input  bool
	pull   gpio.Pull
	base   gpio.Level
	writes []Write
	pulls  []gpio.Pull
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.N
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.N
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.Num
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.input {
		return gpio.IN
	}
	return gpio.OUT
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.IN, gpio.OUT}
}

// SetFunc implements pin.PinFunc.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT:
		return p.Out(p.Level())
	default:
		return errors.New("wiretest: function not supported: " + string(f))
	}
}

// In implements gpio.PinIn.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if p.Fail != nil {
		return p.Fail
	}
	if edge != gpio.NoEdge {
		return errors.New("wiretest: edge detection not supported")
	}
	p.mu.Lock()
	p.input = true
	if pull != gpio.PullNoChange {
		p.pull = pull
	}
	p.pulls = append(p.pulls, pull)
	p.mu.Unlock()
	if p.OnIn != nil {
		p.OnIn(pull)
	}
	return nil
}

// Read implements gpio.PinIn.
func (p *Pin) Read() gpio.Level {
	p.mu.Lock()
	input, l, f := p.input, p.l, p.ReadFunc
	if p.ReadErr != nil {
		p.err = p.ReadErr
	}
	p.mu.Unlock()
	if input && f != nil {
		return f()
	}
	return l
}

// Err returns the error latched by Read since the previous call and clears
// it.
func (p *Pin) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.err
	p.err = nil
	return err
}

// WaitForEdge implements gpio.PinIn. Edges are never reported.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *Pin) Pull() gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// DefaultPull implements gpio.PinIn.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if p.Fail != nil {
		return p.Fail
	}
	var at time.Duration
	if p.Clock != nil {
		at = p.Clock.Elapsed()
	}
	p.mu.Lock()
	p.input = false
	p.l = l
	p.writes = append(p.writes, Write{L: l, At: at})
	p.mu.Unlock()
	if p.OnOut != nil {
		p.OnOut(l)
	}
	return nil
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("wiretest: PWM is not supported")
}

// Level returns the level last written by the host.
func (p *Pin) Level() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.l
}

// IsInput reports whether the host last configured the pin as an input.
func (p *Pin) IsInput() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// Writes returns a copy of every level written so far.
func (p *Pin) Writes() []Write {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Write(nil), p.writes...)
}

// Pulls returns every pull requested through In so far.
func (p *Pin) Pulls() []gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]gpio.Pull(nil), p.pulls...)
}

// Rising returns the number of low to high transitions written since the
// last Reset.
func (p *Pin) Rising() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	prev := p.base
	for _, w := range p.writes {
		if prev == gpio.Low && w.L == gpio.High {
			n++
		}
		prev = w.L
	}
	return n
}

// Reset forgets recorded writes and pulls. The current level becomes the
// starting point for Rising.
func (p *Pin) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.l
	p.writes = nil
	p.pulls = nil
}

var _ gpio.PinIO = &Pin{}
var _ pin.PinFunc = &Pin{}

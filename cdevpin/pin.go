// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cdevpin exposes a line of a Linux GPIO character device as a
// gpio.PinIO, so the drivers in this module can run on a kernel GPIO chip
// without periph's host drivers.
//
// Direction changes reconfigure the requested line in place; the line is
// never released between an output and an input phase. Edge detection and
// PWM are not provided: the bit-banged drivers poll.
package cdevpin

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Consumer is the label the kernel shows for lines requested by Open.
const Consumer = "gpiosense"

// line is the kernel side of a Pin.
type line interface {
	input(pull gpio.Pull) error
	output(l gpio.Level) error
	set(l gpio.Level) error
	value() (gpio.Level, error)
	close() error
}

// Pin is a requested GPIO line.
type Pin struct {
	chip   string
	offset int

	mu     sync.Mutex
	l      line
	output bool
	pull   gpio.Pull
	err    error
}

func newPin(chip string, offset int, l line) *Pin {
	return &Pin{chip: chip, offset: offset, l: l, pull: gpio.Float}
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.Name()
}

// Halt implements conn.Resource. It turns the line into an input with a
// pull down, the Raspberry Pi boot default.
func (p *Pin) Halt() error {
	return p.In(gpio.PullDown, gpio.NoEdge)
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.chip + ":" + strconv.Itoa(p.offset)
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.offset
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.output {
		return string(gpio.OUT)
	}
	return string(gpio.IN)
}

// In implements gpio.PinIn.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return errors.New("cdevpin: edge detection not supported")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.l == nil {
		return errClosed
	}
	if err := p.l.input(pull); err != nil {
		return fmt.Errorf("cdevpin: %s: %w", p.Name(), err)
	}
	p.output = false
	if pull != gpio.PullNoChange {
		p.pull = pull
	}
	return nil
}

// Read implements gpio.PinIn. A failed read returns gpio.Low; the error is
// kept for Err.
func (p *Pin) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.l == nil {
		p.err = errClosed
		return gpio.Low
	}
	v, err := p.l.value()
	if err != nil {
		p.err = fmt.Errorf("cdevpin: %s: %w", p.Name(), err)
		return gpio.Low
	}
	return v
}

// Err returns the error of the last failed Read and clears it.
func (p *Pin) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.err
	p.err = nil
	return err
}

// WaitForEdge implements gpio.PinIn. Edges are not supported.
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
	return gpio.PullDown
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.l == nil {
		return errClosed
	}
	var err error
	if p.output {
		err = p.l.set(l)
	} else {
		err = p.l.output(l)
	}
	if err != nil {
		return fmt.Errorf("cdevpin: %s: %w", p.Name(), err)
	}
	p.output = true
	return nil
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("cdevpin: PWM is not supported")
}

// Close parks the line as in Halt and releases it.
func (p *Pin) Close() error {
	herr := p.Halt()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.l == nil {
		return nil
	}
	err := p.l.close()
	p.l = nil
	return errors.Join(herr, err)
}

var errClosed = errors.New("cdevpin: line closed")

var _ gpio.PinIO = &Pin{}
var _ pin.Pin = &Pin{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adc0834

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/gpiosense/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	maxChannels = 4
	maxRaw      = 0xff

	cmdStart  byte = 0x10
	cmdSingle byte = 0x08
	cmdBits        = 5
	dataBits       = 8
)

var (
	// ErrInvalidChannel is returned for a channel outside [0, Opts.Channels).
	// No pin is touched in that case.
	ErrInvalidChannel = errors.New("adc0834: invalid channel")
	// ErrHalted is returned once Halt has been called.
	ErrHalted = errors.New("adc0834: device halted")
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Channels is the number of single ended inputs wired. Default is 4, the
	// maximum the 2 channel select bits can address.
	Channels int
	// VRef is the reference voltage that a raw value of 255 maps to.
	// Default is 3.3V.
	VRef physic.ElectricPotential
	// ClockHalfPeriod is how long each clock phase is held. Default is 2µs.
	ClockHalfPeriod time.Duration
	// Clock times the clock phases. Default is common.SystemClock.
	Clock common.Clock
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Channels:        maxChannels,
	VRef:            3300 * physic.MilliVolt,
	ClockHalfPeriod: 2 * time.Microsecond,
	Clock:           common.SystemClock,
}

// Dev is a handle to an ADC0834. It owns its four pins: a conversion keeps
// chip select asserted for its whole duration and no other conversion may
// run on the same pins meanwhile.
type Dev struct {
	cs   gpio.PinOut
	clk  gpio.PinOut
	di   gpio.PinOut
	do   gpio.PinIn
	opts Opts

	mu     sync.Mutex
	halted bool
}

// New returns a Dev driving the given pins and leaves the bus idle. The Opts
// can be nil.
func New(cs, clk, di gpio.PinOut, do gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Channels <= 0 {
		o.Channels = DefaultOpts.Channels
	}
	if o.Channels > maxChannels {
		return nil, fmt.Errorf("adc0834: %d channels requested, at most %d are addressable", o.Channels, maxChannels)
	}
	if o.VRef <= 0 {
		o.VRef = DefaultOpts.VRef
	}
	if o.ClockHalfPeriod <= 0 {
		o.ClockHalfPeriod = DefaultOpts.ClockHalfPeriod
	}
	if o.Clock == nil {
		o.Clock = common.SystemClock
	}
	d := &Dev{cs: cs, clk: clk, di: di, do: do, opts: o}
	if err := d.idle(); err != nil {
		return nil, err
	}
	if err := do.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("adc0834: configure DO: %w", err)
	}
	return d, nil
}

// ReadChannel performs one conversion of channel ch and returns the raw
// 8-bit result.
//
// A DO pin that reports failed reads through an Err() error method, such as
// a cdevpin.Pin, fails the conversion.
func (d *Dev) ReadChannel(ch int) (byte, error) {
	if ch < 0 || ch >= d.opts.Channels {
		return 0, fmt.Errorf("%w %d, valid range is [0, %d)", ErrInvalidChannel, ch, d.opts.Channels)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return 0, ErrHalted
	}
	_ = common.PinErr(d.do)
	v, err := d.transfer(command(ch))
	if perr := common.PinErr(d.do); perr != nil {
		return 0, fmt.Errorf("adc0834: read DO: %w", perr)
	}
	return v, err
}

// ReadVoltage converts channel ch and scales the result to Opts.VRef.
func (d *Dev) ReadVoltage(ch int) (physic.ElectricPotential, error) {
	raw, err := d.ReadChannel(ch)
	if err != nil {
		return 0, err
	}
	return d.potential(raw), nil
}

// ReadPercentage converts channel ch and returns it as a percentage of full
// scale.
func (d *Dev) ReadPercentage(ch int) (float64, error) {
	raw, err := d.ReadChannel(ch)
	if err != nil {
		return 0, err
	}
	return float64(raw) / maxRaw * 100, nil
}

// ReadAllChannels converts every channel in order. Each conversion is a
// separate transaction.
func (d *Dev) ReadAllChannels() ([]byte, error) {
	values := make([]byte, d.opts.Channels)
	for ch := range values {
		v, err := d.ReadChannel(ch)
		if err != nil {
			return nil, err
		}
		values[ch] = v
	}
	return values, nil
}

// Pin returns channel ch as an analog.PinADC.
func (d *Dev) Pin(ch int) (analog.PinADC, error) {
	if ch < 0 || ch >= d.opts.Channels {
		return nil, fmt.Errorf("%w %d, valid range is [0, %d)", ErrInvalidChannel, ch, d.opts.Channels)
	}
	return &adcPin{d: d, ch: ch}, nil
}

// Halt returns the bus to idle and makes further conversions fail.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.halted = true
	return d.idle()
}

func (d *Dev) String() string {
	return fmt.Sprintf("adc0834{cs=%s, clk=%s, di=%s, do=%s}", d.cs, d.clk, d.di, d.do)
}

// command returns the 5 command bits for a single ended conversion of ch,
// right aligned.
func command(ch int) byte {
	return cmdStart | cmdSingle | byte(ch&0x03)<<1
}

// transfer runs one conversion. It must be called with mu held.
func (d *Dev) transfer(cmd byte) (v byte, err error) {
	if err := d.cs.Out(gpio.Low); err != nil {
		return 0, fmt.Errorf("adc0834: assert CS: %w", err)
	}
	defer func() {
		if ierr := d.idle(); err == nil {
			err = ierr
		}
	}()
	for i := cmdBits - 1; i >= 0; i-- {
		if err := d.di.Out(gpio.Level(cmd>>i&0x01 == 0x01)); err != nil {
			return 0, fmt.Errorf("adc0834: write DI: %w", err)
		}
		if _, err := d.pulse(); err != nil {
			return 0, err
		}
	}
	// null bit
	if _, err := d.pulse(); err != nil {
		return 0, err
	}
	for range dataBits {
		b, err := d.pulse()
		if err != nil {
			return 0, err
		}
		v <<= 1
		if b == gpio.High {
			v |= 0x01
		}
	}
	return v, nil
}

// pulse drives one full clock period and returns DO as sampled while CLK is
// high.
func (d *Dev) pulse() (gpio.Level, error) {
	if err := d.clk.Out(gpio.High); err != nil {
		return gpio.Low, fmt.Errorf("adc0834: write CLK: %w", err)
	}
	common.Hold(d.opts.Clock, d.opts.ClockHalfPeriod)
	l := d.do.Read()
	if err := d.clk.Out(gpio.Low); err != nil {
		return gpio.Low, fmt.Errorf("adc0834: write CLK: %w", err)
	}
	common.Hold(d.opts.Clock, d.opts.ClockHalfPeriod)
	return l, nil
}

// idle deasserts CS and parks CLK and DI low.
func (d *Dev) idle() error {
	if err := d.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("adc0834: deassert CS: %w", err)
	}
	if err := d.clk.Out(gpio.Low); err != nil {
		return fmt.Errorf("adc0834: write CLK: %w", err)
	}
	if err := d.di.Out(gpio.Low); err != nil {
		return fmt.Errorf("adc0834: write DI: %w", err)
	}
	return nil
}

func (d *Dev) potential(raw byte) physic.ElectricPotential {
	return physic.ElectricPotential(int64(raw) * int64(d.opts.VRef) / maxRaw)
}

var _ conn.Resource = &Dev{}

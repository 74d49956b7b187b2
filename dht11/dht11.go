// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/gpiosense/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	frameBits = 40

	// Every wait for a level change is bounded so a silent or disconnected
	// sensor can never stall a read.
	ackTimeout = 100 * time.Microsecond
	bitTimeout = 100 * time.Microsecond

	// bitThreshold separates a ~27µs high pulse (0) from a ~70µs one (1).
	bitThreshold = 50 * time.Microsecond

	minStartLow = 18 * time.Millisecond
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Attempts is the number of reads Sense tries before giving up. Default
	// is 15.
	Attempts int
	// Delay is the pause between two attempts. It is also the minimum
	// SenseContinuous interval. Default is 2s, the sensor's sampling period,
	// which is also used when Delay is 0.
	Delay time.Duration
	// StartLow is how long the host pulls the line low to wake the sensor.
	// Default is 20ms. Must be at least 18ms.
	StartLow time.Duration
	// StartRelease is how long the host drives the line high before handing
	// it to the sensor. Default is 20µs.
	StartRelease time.Duration
	// Clock measures pulse widths. Default is common.SystemClock.
	Clock common.Clock
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Attempts:     15,
	Delay:        2 * time.Second,
	StartLow:     20 * time.Millisecond,
	StartRelease: 20 * time.Microsecond,
	Clock:        common.SystemClock,
}

// Dev is a handle to a DHT11 on a single GPIO line. The line carries one
// transaction at a time; concurrent reads are serialized.
type Dev struct {
	p    gpio.PinIO
	opts Opts

	mu     sync.Mutex
	halted bool
	stop   chan struct{}
	wg     sync.WaitGroup
}

// New returns a Dev using p and parks the line as a pulled up input. The Opts
// can be nil.
func New(p gpio.PinIO, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Attempts <= 0 {
		o.Attempts = DefaultOpts.Attempts
	}
	if o.Delay < 0 {
		return nil, fmt.Errorf("dht11: negative delay %s", o.Delay)
	}
	if o.Delay == 0 {
		o.Delay = DefaultOpts.Delay
	}
	if o.StartLow == 0 {
		o.StartLow = DefaultOpts.StartLow
	}
	if o.StartLow < minStartLow {
		return nil, fmt.Errorf("dht11: start signal of %s is shorter than %s", o.StartLow, minStartLow)
	}
	if o.StartRelease <= 0 {
		o.StartRelease = DefaultOpts.StartRelease
	}
	if o.Clock == nil {
		o.Clock = common.SystemClock
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("dht11: configure %s: %w", p, err)
	}
	return &Dev{p: p, opts: o}, nil
}

// Read performs a single transaction and returns the validated reading.
//
// The errors ErrNoResponse, ErrTruncated, ErrChecksum and ErrOutOfRange are
// transient; use ReadRetry to absorb them.
func (d *Dev) Read() (Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return Reading{}, ErrHalted
	}
	f, err := d.readFrame()
	if err != nil {
		return Reading{}, err
	}
	return Decode(f)
}

// ReadRetry calls Read up to attempts times, sleeping delay between
// attempts. It returns the first valid reading or an *UnavailableError.
func (d *Dev) ReadRetry(attempts int, delay time.Duration) (Reading, error) {
	return d.ReadRetryContext(context.Background(), attempts, delay)
}

// ReadRetryContext is ReadRetry with cancellation. ctx is only checked
// between attempts; a transaction on the wire always completes, so the Dev
// stays usable after ctx is done.
func (d *Dev) ReadRetryContext(ctx context.Context, attempts int, delay time.Duration) (Reading, error) {
	r, err := common.Retry(ctx, common.Policy{Attempts: attempts, Delay: delay, Clock: d.opts.Clock}, func() (Reading, error) {
		r, err := d.Read()
		if err != nil && !retryable(err) {
			return r, common.Permanent(err)
		}
		return r, err
	})
	var ex *common.ExhaustedError
	if errors.As(err, &ex) {
		return Reading{}, &UnavailableError{Attempts: ex.Attempts, Last: ex.Last}
	}
	return r, err
}

// Sense implements physic.SenseEnv. It retries according to Opts. Pressure
// is always 0.
func (d *Dev) Sense(e *physic.Env) error {
	r, err := d.ReadRetry(d.opts.Attempts, d.opts.Delay)
	if err != nil {
		return err
	}
	*e = r.Env()
	return nil
}

// SenseContinuous implements physic.SenseEnv. One transaction is attempted
// every interval and failed ones are skipped. The interval may not be
// shorter than Opts.Delay. Call Halt to stop.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval <= 0 || interval < d.opts.Delay {
		return nil, fmt.Errorf("dht11: invalid interval %s, minimum is %s", interval, d.opts.Delay)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil, ErrHalted
	}
	if d.stop != nil {
		return nil, errors.New("dht11: SenseContinuous already running")
	}
	stop := make(chan struct{})
	d.stop = stop
	sensing := make(chan physic.Env)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(sensing)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				r, err := d.Read()
				if err != nil {
					continue
				}
				select {
				case sensing <- r.Env():
				case <-stop:
					return
				}
			}
		}
	}()
	return sensing, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Celsius
	e.Pressure = 0
	e.Humidity = physic.PercentRH
}

// Halt stops SenseContinuous, releases the line and makes further reads
// fail.
func (d *Dev) Halt() error {
	d.mu.Lock()
	d.halted = true
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
	}
	d.wg.Wait()
	return d.p.In(gpio.PullUp, gpio.NoEdge)
}

func (d *Dev) String() string {
	return fmt.Sprintf("dht11: %s", d.p)
}

// start sends the wake up signal and hands the line to the sensor.
func (d *Dev) start() error {
	if err := d.p.Out(gpio.Low); err != nil {
		return fmt.Errorf("dht11: start signal: %w", err)
	}
	d.opts.Clock.Sleep(d.opts.StartLow)
	if err := d.p.Out(gpio.High); err != nil {
		return fmt.Errorf("dht11: start signal: %w", err)
	}
	common.Hold(d.opts.Clock, d.opts.StartRelease)
	if err := d.p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("dht11: release line: %w", err)
	}
	return nil
}

// readFrame runs one transaction and reports a read error latched by the
// pin during it ahead of any protocol error. It must be called with mu held.
func (d *Dev) readFrame() (Frame, error) {
	_ = common.PinErr(d.p)
	f, err := d.receive()
	if perr := common.PinErr(d.p); perr != nil {
		return Frame{}, fmt.Errorf("dht11: read %s: %w", d.p, perr)
	}
	return f, err
}

// receive wakes the sensor and samples the 40 bit frame.
func (d *Dev) receive() (Frame, error) {
	var f Frame
	if err := d.start(); err != nil {
		return f, err
	}
	c := d.opts.Clock
	// Acknowledge: the sensor pulls low, then high, then low again to
	// begin the first bit.
	for _, l := range []gpio.Level{gpio.Low, gpio.High, gpio.Low} {
		if _, ok := common.WaitForLevel(c, d.p, l, ackTimeout); !ok {
			return f, ErrNoResponse
		}
	}
	for i := range frameBits {
		if _, ok := common.WaitForLevel(c, d.p, gpio.High, bitTimeout); !ok {
			return f, fmt.Errorf("%w at bit %d", ErrTruncated, i)
		}
		high, ok := common.WaitForLevel(c, d.p, gpio.Low, bitTimeout)
		if !ok {
			return f, fmt.Errorf("%w at bit %d", ErrTruncated, i)
		}
		f[i/8] <<= 1
		if high > bitThreshold {
			f[i/8] |= 0x01
		}
	}
	return f, nil
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wiretest

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
)

func TestClock(t *testing.T) {
	c := &Clock{}
	if c.Now() != DefaultStep || c.Now() != 2*DefaultStep {
		t.Fatal("Now must advance by DefaultStep")
	}
	c.Sleep(time.Millisecond)
	c.Sleep(-time.Second)
	if got := c.Elapsed(); got != time.Millisecond+2*DefaultStep {
		t.Errorf("Elapsed()=%s", got)
	}
	c = &Clock{Step: 10 * time.Nanosecond}
	if c.Now() != 10*time.Nanosecond {
		t.Error("Step ignored")
	}
}

func TestPinRecords(t *testing.T) {
	c := &Clock{}
	var seen []gpio.Level
	p := &Pin{N: "P1", Num: 1, Clock: c, OnOut: func(l gpio.Level) { seen = append(seen, l) }}
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		c.Sleep(time.Microsecond)
		if err := p.Out(l); err != nil {
			t.Fatal(err)
		}
	}
	want := []Write{{L: gpio.High, At: time.Microsecond}, {L: gpio.Low, At: 2 * time.Microsecond}, {L: gpio.High, At: 3 * time.Microsecond}}
	if diff := cmp.Diff(p.Writes(), want); diff != "" {
		t.Errorf("Writes() (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(seen, []gpio.Level{gpio.High, gpio.Low, gpio.High}); diff != "" {
		t.Errorf("OnOut (-got +want):\n%s", diff)
	}
	if p.Rising() != 2 {
		t.Errorf("Rising()=%d, want 2", p.Rising())
	}
	if p.Read() != gpio.High || p.Function() != string(gpio.OUT) {
		t.Error("output pin must read back its level")
	}
	p.Reset()
	if len(p.Writes()) != 0 || p.Rising() != 0 {
		t.Error("Reset kept writes")
	}
}

func TestPinInput(t *testing.T) {
	p := &Pin{N: "P2", ReadFunc: func() gpio.Level { return gpio.High }}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if p.Read() != gpio.High || !p.IsInput() {
		t.Error("input pin must read from ReadFunc")
	}
	if p.Pull() != gpio.PullUp {
		t.Errorf("Pull()=%s", p.Pull())
	}
	if diff := cmp.Diff(p.Pulls(), []gpio.Pull{gpio.PullUp, gpio.PullNoChange}); diff != "" {
		t.Errorf("Pulls() (-got +want):\n%s", diff)
	}
	if err := p.In(gpio.Float, gpio.BothEdges); err == nil {
		t.Error("expected an error for edge detection")
	}
	if p.Function() != string(gpio.IN) {
		t.Errorf("Function()=%q", p.Function())
	}
}

func TestPinErrors(t *testing.T) {
	errBus := errors.New("bus")
	p := &Pin{N: "P3", Fail: errBus}
	if err := p.Out(gpio.High); err != errBus {
		t.Errorf("Out()=%v", err)
	}
	if err := p.In(gpio.Float, gpio.NoEdge); err != errBus {
		t.Errorf("In()=%v", err)
	}
	p = &Pin{N: "P4"}
	p.Read()
	if err := p.Err(); err != nil {
		t.Fatalf("Err()=%v before any failure", err)
	}
	p.ReadErr = errBus
	p.Read()
	p.ReadErr = nil
	if err := p.Err(); err != errBus {
		t.Errorf("Err()=%v, want the latched read error", err)
	}
	if err := p.Err(); err != nil {
		t.Errorf("Err() did not clear: %v", err)
	}
}

func TestWaveform(t *testing.T) {
	c := &Clock{}
	p := NewWaveform(c, gpio.High,
		[]Segment{{L: gpio.Low, Dur: 10 * time.Microsecond}},
		[]Segment{{L: gpio.High, Dur: 5 * time.Microsecond}, {L: gpio.Low, Dur: 5 * time.Microsecond}},
	)
	// Parking the line does not start a play.
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if p.Read() != gpio.High {
		t.Fatal("line must idle before the host drives it")
	}

	levels := func() []gpio.Level {
		var got []gpio.Level
		for range 12 {
			got = append(got, p.Read())
			c.Sleep(time.Microsecond)
		}
		return got
	}
	run := func() []gpio.Level {
		if err := p.Out(gpio.Low); err != nil {
			t.Fatal(err)
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			t.Fatal(err)
		}
		return levels()
	}

	L, H := gpio.Low, gpio.High
	if diff := cmp.Diff(run(), []gpio.Level{L, L, L, L, L, L, L, L, L, L, H, H}); diff != "" {
		t.Errorf("first play (-got +want):\n%s", diff)
	}
	second := []gpio.Level{H, H, H, H, H, L, L, L, L, L, H, H}
	if diff := cmp.Diff(run(), second); diff != "" {
		t.Errorf("second play (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(run(), second); diff != "" {
		t.Errorf("repeated play (-got +want):\n%s", diff)
	}
	if d := Duration([]Segment{{Dur: time.Microsecond}, {Dur: 2 * time.Microsecond}}); d != 3*time.Microsecond {
		t.Errorf("Duration()=%s", d)
	}
}

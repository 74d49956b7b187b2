// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package cdevpin

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
)

// Open requests line offset of chip (for example "gpiochip0") as a floating
// input.
func Open(chip string, offset int) (*Pin, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("cdevpin: request %s:%d: %w", chip, offset, err)
	}
	return newPin(chip, offset, &cdevLine{l: l}), nil
}

type cdevLine struct {
	l *gpiocdev.Line
}

func (c *cdevLine) input(pull gpio.Pull) error {
	switch pull {
	case gpio.PullUp:
		return c.l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp)
	case gpio.PullDown:
		return c.l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown)
	case gpio.Float:
		return c.l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithBiasDisabled)
	default:
		return c.l.Reconfigure(gpiocdev.AsInput)
	}
}

func (c *cdevLine) output(l gpio.Level) error {
	return c.l.Reconfigure(gpiocdev.AsOutput(levelValue(l)))
}

func (c *cdevLine) set(l gpio.Level) error {
	return c.l.SetValue(levelValue(l))
}

func (c *cdevLine) value() (gpio.Level, error) {
	v, err := c.l.Value()
	if err != nil {
		return gpio.Low, err
	}
	return v != 0, nil
}

func (c *cdevLine) close() error {
	return c.l.Close()
}

func levelValue(l gpio.Level) int {
	if l == gpio.High {
		return 1
	}
	return 0
}

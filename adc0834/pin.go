// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adc0834

import (
	"strconv"

	"periph.io/x/conn/v3/analog"
)

// adcPin exposes one channel of a Dev.
type adcPin struct {
	d  *Dev
	ch int
}

func (p *adcPin) String() string {
	return p.Name()
}

// Halt is a no-op. Halting the Dev halts every channel.
func (p *adcPin) Halt() error {
	return nil
}

func (p *adcPin) Name() string {
	return "ADC0834_CH" + strconv.Itoa(p.ch)
}

func (p *adcPin) Number() int {
	return p.ch
}

func (p *adcPin) Function() string {
	return "ADC"
}

// Range returns the samples for 0V and full scale.
func (p *adcPin) Range() (analog.Sample, analog.Sample) {
	return analog.Sample{}, analog.Sample{V: p.d.opts.VRef, Raw: maxRaw}
}

// Read converts the channel.
func (p *adcPin) Read() (analog.Sample, error) {
	raw, err := p.d.ReadChannel(p.ch)
	if err != nil {
		return analog.Sample{}, err
	}
	return analog.Sample{V: p.d.potential(raw), Raw: int32(raw)}, nil
}

var _ analog.PinADC = &adcPin{}

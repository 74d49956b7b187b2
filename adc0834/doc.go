// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adc0834 controls an ADC0834 4-channel 8-bit successive
// approximation A/D converter by bit-banging its serial interface over four
// GPIO pins: CS (active low chip select), CLK, DI (to the chip) and DO (from
// the chip).
//
// A conversion clocks out a 5 bit command (start, single ended, 2 channel
// select bits, padding), clocks one null bit and then clocks in 8 data bits,
// MSB first. The interface carries no integrity check: a glitch on the wire
// yields a plausible but wrong sample that the driver cannot detect.
//
// # Datasheet
//
// https://www.ti.com/product/ADC0834-N
package adc0834

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpiosense is a container for drivers of sensors that are read by
// bit-banging GPIO pins: the ADC0834 serial A/D converter (adc0834) and the
// DHT11 single-wire humidity and temperature sensor (dht11).
//
// The drivers accept periph.io gpio pins. cdevpin provides such pins on top
// of the Linux GPIO character device and wiretest simulates them in tests.
package gpiosense

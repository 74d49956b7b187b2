// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11 reads an Aosong DHT11 humidity and temperature sensor over
// its single-wire protocol.
//
// The host wakes the sensor by pulling the data line low for at least 18ms
// and then releases it. The sensor acknowledges with ~80µs low and ~80µs
// high, then sends 40 bits. Every bit starts with ~50µs low; the length of
// the following high pulse is the bit value: ~27µs for 0, ~70µs for 1. The
// 5 byte frame holds integral and decimal humidity, integral and decimal
// temperature and an additive checksum. The DHT11 resolution is 1% RH and
// 1°C so the decimal bytes are zero.
//
// Pulse widths are measured by polling the pin against a monotonic clock;
// edge interrupts are too slow for this protocol.
//
// The dht11.Dev type implements the physic.SenseEnv interface. The sensor
// should not be sampled more often than every 2 seconds.
//
// # Datasheet
//
// https://learn.adafruit.com/dht
package dht11

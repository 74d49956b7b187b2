// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"github.com/GermanBionicSystems/gpiosense/common"
	"periph.io/x/conn/v3/physic"
)

// Physical limits a reading must respect.
const (
	MinHumidity    = 0
	MaxHumidity    = 100
	MinTemperature = -40
	MaxTemperature = 80
)

// Frame is the raw 40-bit answer of the sensor: integral humidity, decimal
// humidity, integral temperature, decimal temperature, checksum.
type Frame [5]byte

// Sum returns the checksum the first four bytes call for.
func (f Frame) Sum() byte {
	return common.Sum8(f[:4])
}

// Valid reports whether the checksum byte matches.
func (f Frame) Valid() bool {
	return f[4] == f.Sum()
}

// Reading is a validated measurement.
type Reading struct {
	// Humidity is the relative humidity in percent.
	Humidity int
	// Temperature is in degrees Celsius.
	Temperature int
}

// Env returns r as a physic.Env. Pressure is not measured.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(r.Temperature)*physic.Celsius,
		Humidity:    physic.RelativeHumidity(r.Humidity) * physic.PercentRH,
	}
}

// Decode validates f and converts it. A Reading is returned only if both the
// checksum and the range checks pass.
func Decode(f Frame) (Reading, error) {
	if !f.Valid() {
		return Reading{}, &ChecksumError{Frame: f}
	}
	r := Reading{Humidity: int(f[0]), Temperature: int(f[2])}
	if r.Humidity < MinHumidity || r.Humidity > MaxHumidity ||
		r.Temperature < MinTemperature || r.Temperature > MaxTemperature {
		return Reading{}, &RangeError{Reading: r}
	}
	return r, nil
}

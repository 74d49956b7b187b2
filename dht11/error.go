// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResponse means the sensor did not acknowledge the start signal.
	ErrNoResponse = errors.New("dht11: no response from sensor")
	// ErrTruncated means the frame stopped before its 40th bit.
	ErrTruncated = errors.New("dht11: frame truncated")
	// ErrChecksum means a full frame was received but its checksum is wrong.
	ErrChecksum = errors.New("dht11: checksum mismatch")
	// ErrOutOfRange means the frame is intact but the values are not
	// physically plausible.
	ErrOutOfRange = errors.New("dht11: reading out of range")
	// ErrSensorUnavailable means every attempt of a retrying read failed.
	ErrSensorUnavailable = errors.New("dht11: sensor unavailable")
	// ErrHalted is returned once Halt has been called.
	ErrHalted = errors.New("dht11: device halted")
)

// ChecksumError carries the frame that failed validation. It matches
// ErrChecksum.
type ChecksumError struct {
	Frame Frame
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("dht11: checksum mismatch: frame % x, expected 0x%02x", e.Frame[:], e.Frame.Sum())
}

func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksum
}

// RangeError carries the implausible reading. It matches ErrOutOfRange.
type RangeError struct {
	Reading Reading
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("dht11: reading out of range: %d%%RH %d°C", e.Reading.Humidity, e.Reading.Temperature)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// UnavailableError is returned when the retry budget is spent. It matches
// ErrSensorUnavailable and unwraps to the last attempt's error.
type UnavailableError struct {
	Attempts int
	Last     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("dht11: sensor unavailable after %d attempts: %v", e.Attempts, e.Last)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrSensorUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Last
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	return errors.Is(err, ErrNoResponse) ||
		errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrChecksum) ||
		errors.Is(err, ErrOutOfRange)
}

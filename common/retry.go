// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy bounds a Retry loop.
type Policy struct {
	// Attempts is the maximum number of invocations. Values below 1 mean a
	// single attempt.
	Attempts int
	// Delay is the fixed pause between two attempts. It does not grow.
	Delay time.Duration
	// Clock measures Delay. Default is SystemClock.
	Clock Clock
}

// ExhaustedError is returned by Retry when every attempt failed.
type ExhaustedError struct {
	Attempts int
	// Last is the error returned by the final attempt.
	Last error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent marks err so that Retry returns it immediately instead of
// trying again. Retry strips the mark.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry calls attempt until it succeeds, returns a Permanent error, or the
// policy's attempt budget is spent. It sleeps p.Delay between attempts but
// not after the last one.
//
// ctx is only checked between attempts. An attempt in progress always runs
// to completion, so a cancelled Retry never leaves a bus transaction half
// done.
func Retry[T any](ctx context.Context, p Policy, attempt func() (T, error)) (T, error) {
	var zero T
	n := max(p.Attempts, 1)
	c := p.Clock
	if c == nil {
		c = SystemClock
	}
	var last error
	for i := range n {
		if i > 0 && p.Delay > 0 {
			sleep(ctx, c, p.Delay)
		}
		if err := ctx.Err(); err != nil {
			if last != nil {
				return zero, fmt.Errorf("%w after %d attempts: %w", err, i, last)
			}
			return zero, err
		}
		v, err := attempt()
		if err == nil {
			return v, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}
		last = err
	}
	return zero, &ExhaustedError{Attempts: n, Last: last}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package cdevpin

import "errors"

// Open is not available on non-Linux platforms.
func Open(chip string, offset int) (*Pin, error) {
	return nil, errors.New("cdevpin: not supported on this platform (requires Linux)")
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the busy-wait timing helpers used to bit-bang a protocol, an
// additive 8-bit checksum and a bounded retry loop.
package common

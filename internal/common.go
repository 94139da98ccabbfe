// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package internal holds bit manipulation helpers for building and checking
// prefix codes, which DEFLATE packs starting from the most-significant bit of
// each codeword.
package internal

import "math/bits"

// ReverseUint32N reverses the lower n bits of v. n must be in 1..32.
func ReverseUint32N(v uint32, n uint) uint32 {
	return bits.Reverse32(v << (32 - n))
}

// ReverseUint64N reverses the lower n bits of v. n must be in 1..64.
func ReverseUint64N(v uint64, n uint) uint64 {
	return bits.Reverse64(v << (64 - n))
}

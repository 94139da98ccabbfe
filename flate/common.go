// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package flate implements a whole-buffer decompressor for the DEFLATE
// compressed data format, described in RFC 1951.
//
// The entire compressed stream and a pre-sized output buffer are handed to a
// single call, which either reproduces the original bytes or reports that the
// stream is corrupted or that the output buffer is too small.
package flate

import "runtime"

const (
	endBlockSym = 256
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "flate: " + string(e) }

var (
	// ErrCorrupt reports that the input is not a valid DEFLATE stream.
	// Truncated input is reported as corrupt as well.
	ErrCorrupt error = Error("stream is corrupted")

	// ErrShortBuffer reports that the output buffer filled up before the
	// final block of the stream was fully decoded.
	ErrShortBuffer error = Error("insufficient output space")

	errUnknownStrategy error = Error("unknown decoding strategy")
)

func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

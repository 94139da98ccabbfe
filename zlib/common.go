// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package zlib implements a whole-buffer decompressor for the zlib data
// format, described in RFC 1950. The compressed body is decoded with package
// flate.
package zlib

import "runtime"

const (
	hdrSize     = 2
	trailerSize = 4 // Big-endian Adler-32 of the uncompressed data

	cmDeflate = 8
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "zlib: " + string(e) }

var (
	// ErrCorrupt reports a malformed header or trailer, or a corrupted
	// DEFLATE body.
	ErrCorrupt error = Error("stream is corrupted")

	// ErrChecksum reports that the Adler-32 trailer does not match the
	// decompressed data.
	ErrChecksum error = Error("checksum mismatch")
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

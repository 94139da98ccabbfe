// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package gzip implements a whole-buffer decompressor for the gzip file
// format, described in RFC 1952. The compressed body is decoded with package
// flate.
package gzip

import (
	"encoding/binary"
	"runtime"
	"time"
)

const (
	hdrID1    = 0x1f
	hdrID2    = 0x8b
	cmDeflate = 8

	hdrSize     = 10
	trailerSize = 8 // CRC-32 and ISIZE, both little-endian
)

// Header flags (RFC section 2.3.1).
const (
	flagText     = 0x01
	flagHdrCRC   = 0x02
	flagExtra    = 0x04
	flagName     = 0x08
	flagComment  = 0x10
	flagReserved = 0xe0
)

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "gzip: " + string(e) }

var (
	// ErrCorrupt reports a malformed header or trailer, or a corrupted
	// DEFLATE body.
	ErrCorrupt error = Error("stream is corrupted")

	// ErrChecksum reports that the header checksum, the CRC-32 trailer or
	// the size trailer does not match.
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

// Header holds the metadata of a gzip member. Name and Comment are converted
// from Latin-1.
type Header struct {
	Name    string
	Comment string
	Extra   []byte
	ModTime time.Time // Zero if not recorded
	OS      byte
	Text    bool // The data is probably ASCII text
}

// Size returns the uncompressed size recorded in the trailer of a gzip file,
// assuming that in holds exactly one member. The size is stored modulo 1<<32,
// so it is only a hint for larger data.
func Size(in []byte) (int, error) {
	if len(in) < hdrSize+trailerSize || in[0] != hdrID1 || in[1] != hdrID2 {
		return 0, ErrCorrupt
	}
	return int(binary.LittleEndian.Uint32(in[len(in)-4:])), nil
}

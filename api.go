// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package inflate is a collection of whole-buffer decompressors for DEFLATE
// based formats. Each decompressor consumes a complete compressed stream and
// writes into a caller-provided output buffer of fixed size.
package inflate

import (
	"strings"

	"github.com/inflate-go/inflate/flate"
	"github.com/inflate-go/inflate/gzip"
	"github.com/inflate-go/inflate/zlib"
)

// Decompressor is implemented by the decompressors of packages flate, zlib
// and gzip. Decompress reports flate.ErrShortBuffer when out is too small.
type Decompressor interface {
	Decompress(in, out []byte) (nIn, nOut int, err error)
}

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "inflate: " + string(e) }

var (
	// ErrLimit reports that the decompressed data exceeds the size limit.
	ErrLimit error = Error("output size limit exceeded")

	errUnknownFormat error = Error("unknown format")
)

// Format identifies the framing around a DEFLATE stream.
type Format int

const (
	FormatAuto Format = iota
	FormatRaw
	FormatZlib
	FormatGzip
)

var formatNames = map[Format]string{
	FormatAuto: "auto",
	FormatRaw:  "raw",
	FormatZlib: "zlib",
	FormatGzip: "gzip",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// ParseFormat returns the format with the given name.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, errUnknownFormat
}

// DetectFormat guesses the format of in from its first bytes. Any input that
// does not start with a gzip or zlib header is assumed to be raw DEFLATE.
func DetectFormat(in []byte) Format {
	switch {
	case len(in) >= 2 && in[0] == 0x1f && in[1] == 0x8b:
		return FormatGzip
	case len(in) >= 2 && in[0]&0x0f == 8 && in[0]>>4 <= 7 && (uint(in[0])<<8|uint(in[1]))%31 == 0:
		return FormatZlib
	default:
		return FormatRaw
	}
}

// NewDecompressor returns a decompressor for the given format.
// FormatAuto is not a concrete format and yields nil.
func NewDecompressor(f Format) Decompressor {
	switch f {
	case FormatRaw:
		return flate.NewDecompressor()
	case FormatZlib:
		return zlib.NewDecompressor()
	case FormatGzip:
		return gzip.NewDecompressor()
	default:
		return nil
	}
}

const minBufSize = 64

// DecompressAll decompresses in with d when the decompressed size is not known
// in advance. The output buffer starts at sizeHint bytes, or at a multiple of
// len(in) if sizeHint <= 0, and doubles every time d reports
// flate.ErrShortBuffer. If limit > 0, the buffer never grows beyond limit
// bytes and ErrLimit is returned once it would have to.
//
// It returns the decompressed data and the number of input bytes consumed.
func DecompressAll(d Decompressor, in []byte, sizeHint, limit int) ([]byte, int, error) {
	size := sizeHint
	if size <= 0 {
		size = max(4*len(in), minBufSize)
	}
	if limit > 0 && size > limit {
		size = limit
	}
	for {
		buf := make([]byte, size)
		nIn, nOut, err := d.Decompress(in, buf)
		switch {
		case err == nil:
			return buf[:nOut], nIn, nil
		case err != flate.ErrShortBuffer:
			return nil, nIn, err
		case limit > 0 && size >= limit:
			return nil, nIn, ErrLimit
		}
		size *= 2
		if limit > 0 && size > limit {
			size = limit
		}
	}
}

// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlib

import (
	"encoding/binary"
	"hash/adler32"

	"github.com/inflate-go/inflate/flate"
)

// A Decompressor decompresses zlib streams. It may be reused, but must not be
// used by multiple goroutines at the same time.
type Decompressor struct {
	fd flate.Decompressor
}

func NewDecompressor() *Decompressor {
	return new(Decompressor)
}

// SetStrategy fixes the DEFLATE decoding strategy. See flate.Strategies.
func (d *Decompressor) SetStrategy(name string) error {
	return d.fd.SetStrategy(name)
}

// Decompress decompresses the zlib stream at the start of in into out and
// reports the number of bytes of in and out that were used.
//
// It returns flate.ErrShortBuffer if out is too small, ErrChecksum if the
// data does not match its checksum, and ErrCorrupt for any other defect.
// Streams that require a preset dictionary are reported as corrupt.
func (d *Decompressor) Decompress(in, out []byte) (nIn, nOut int, err error) {
	defer errRecover(&err)

	// RFC section 2.2.
	if len(in) < hdrSize {
		panic(ErrCorrupt)
	}
	cmf, flg := in[0], in[1]
	if cmf&0x0f != cmDeflate || cmf>>4 > 7 {
		panic(ErrCorrupt)
	}
	if (uint(cmf)<<8|uint(flg))%31 != 0 {
		panic(ErrCorrupt) // FCHECK mismatch
	}
	if flg&0x20 != 0 {
		panic(ErrCorrupt) // FDICT
	}

	n, nOut, err := d.fd.Decompress(in[hdrSize:], out)
	nIn = hdrSize + n
	switch err {
	case nil:
	case flate.ErrCorrupt:
		panic(ErrCorrupt)
	default:
		panic(err)
	}

	if len(in)-nIn < trailerSize {
		panic(ErrCorrupt)
	}
	if binary.BigEndian.Uint32(in[nIn:]) != adler32.Checksum(out[:nOut]) {
		panic(ErrChecksum)
	}
	return nIn + trailerSize, nOut, nil
}

// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package gzip

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"time"

	"github.com/inflate-go/inflate/flate"
)

// A Decompressor decompresses gzip members. It may be reused, but must not be
// used by multiple goroutines at the same time.
type Decompressor struct {
	// Header of the member most recently passed to Decompress. It is valid
	// once the header has been parsed, even if decompression failed later.
	Header Header

	fd flate.Decompressor
}

func NewDecompressor() *Decompressor {
	return new(Decompressor)
}

// SetStrategy fixes the DEFLATE decoding strategy. See flate.Strategies.
func (d *Decompressor) SetStrategy(name string) error {
	return d.fd.SetStrategy(name)
}

// Decompress decompresses the gzip member at the start of in into out and
// reports the number of bytes of in and out that were used. Any data after
// the member, including further members, is ignored.
//
// It returns flate.ErrShortBuffer if out is too small, ErrChecksum if a
// checksum or the recorded size does not match, and ErrCorrupt for any other
// defect.
func (d *Decompressor) Decompress(in, out []byte) (nIn, nOut int, err error) {
	defer errRecover(&err)

	d.Header = Header{}
	pos := d.readHeader(in)

	n, nOut, err := d.fd.Decompress(in[pos:], out)
	nIn = pos + n
	switch err {
	case nil:
	case flate.ErrCorrupt:
		panic(ErrCorrupt)
	default:
		panic(err)
	}

	// RFC section 2.3.1.
	if len(in)-nIn < trailerSize {
		panic(ErrCorrupt)
	}
	crc := binary.LittleEndian.Uint32(in[nIn:])
	size := binary.LittleEndian.Uint32(in[nIn+4:])
	if crc != crc32.ChecksumIEEE(out[:nOut]) || size != uint32(nOut) {
		panic(ErrChecksum)
	}
	return nIn + trailerSize, nOut, nil
}

// readHeader parses the member header according to RFC section 2.3 and
// returns its length.
func (d *Decompressor) readHeader(in []byte) int {
	if len(in) < hdrSize || in[0] != hdrID1 || in[1] != hdrID2 || in[2] != cmDeflate {
		panic(ErrCorrupt)
	}
	flg := in[3]
	if flg&flagReserved != 0 {
		panic(ErrCorrupt)
	}
	if mtime := binary.LittleEndian.Uint32(in[4:]); mtime > 0 {
		d.Header.ModTime = time.Unix(int64(mtime), 0)
	}
	d.Header.OS = in[9]
	d.Header.Text = flg&flagText != 0
	pos := hdrSize

	if flg&flagExtra != 0 {
		if len(in)-pos < 2 {
			panic(ErrCorrupt)
		}
		xlen := int(binary.LittleEndian.Uint16(in[pos:]))
		pos += 2
		if len(in)-pos < xlen {
			panic(ErrCorrupt)
		}
		d.Header.Extra = append([]byte(nil), in[pos:pos+xlen]...)
		pos += xlen
	}
	if flg&flagName != 0 {
		d.Header.Name, pos = readString(in, pos)
	}
	if flg&flagComment != 0 {
		d.Header.Comment, pos = readString(in, pos)
	}
	if flg&flagHdrCRC != 0 {
		if len(in)-pos < 2 {
			panic(ErrCorrupt)
		}
		if binary.LittleEndian.Uint16(in[pos:]) != uint16(crc32.ChecksumIEEE(in[:pos])) {
			panic(ErrChecksum)
		}
		pos += 2
	}
	return pos
}

// readString reads a zero-terminated Latin-1 string starting at pos and
// returns it along with the position after the terminator.
func readString(in []byte, pos int) (string, int) {
	n := bytes.IndexByte(in[pos:], 0)
	if n < 0 {
		panic(ErrCorrupt)
	}
	b := in[pos : pos+n]
	s := make([]rune, len(b))
	for i, c := range b {
		s[i] = rune(c)
	}
	return string(s), pos + n + 1
}

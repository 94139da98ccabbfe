// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/inflate-go/inflate/internal"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D([0-9]+):([0-9]+)$")
	reHex = regexp.MustCompile("^H([0-9]+):([0-9a-fA-F]{1,16})$")
	reRaw = regexp.MustCompile("^X:([0-9a-fA-F]+)$")
	reQnt = regexp.MustCompile("^(.+)[*]([0-9]+)$")
)

// DecodeBitGen decodes a BitGen formatted string into a DEFLATE bit-stream.
//
// The BitGen format describes a bit-stream as a series of whitespace separated
// tokens so that test streams can be written out by hand, field by field.
// Any text following a '#' on a line is a comment.
//
// The first token must be "<<<", which states that bits are packed starting
// with the least-significant bit of each byte, as DEFLATE does.
//
// The standalone tokens "<" and ">" select how the following tokens are
// turned into bits. In "<" mode (the default), the least-significant bit of
// a value is written first, which is how DEFLATE writes integer fields. In ">"
// mode, the most-significant bit is written first, which is how DEFLATE writes
// prefix codes. Prefixing a single token with "<" or ">" applies that mode to
// the token alone.
//
// Value tokens are:
//	0110      A bit-string of up to 64 bits, read as a binary number.
//	D5:12     A decimal value written with the given number of bits.
//	H16:ffff  A hexadecimal value written with the given number of bits.
//	X:deadbe  Literal bytes; the stream must be byte-aligned.
//
// Any token may end with "*N" to repeat it N times.
//
// The stream is padded with zero bits up to the next byte boundary.
//
// Example BitGen string:
//	<<< # DEFLATE uses LE bit-packing order
//
//	< 0 00 0*5                 # Non-last, raw block, padding
//	< H16:0004 H16:fffb        # RawSize: 4
//	X:deadcafe                 # Raw data
//
//	< 1 01                     # Last, fixed block
//	> 0000000                  # EOB marker
func DecodeBitGen(str string) ([]byte, error) {
	toks := tokenizeBitGen(str)
	if len(toks) == 0 || toks[0] != "<<<" {
		return nil, errors.New("testutil: stream must start with <<<")
	}

	var bb bitBuffer
	var msbFirst bool // Global bit-parsing mode
	for _, t := range toks[1:] {
		msb := msbFirst
		if t[0] == '<' || t[0] == '>' {
			msb = t[0] == '>'
			if t = t[1:]; t == "" {
				msbFirst = msb
				continue
			}
		}

		rep := 1
		if m := reQnt.FindStringSubmatch(t); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = m[1], n
		}

		var v uint64
		var n uint
		switch {
		case reBin.MatchString(t):
			v, _ = strconv.ParseUint(t, 2, 64)
			n = uint(len(t))
		case reDec.MatchString(t) || reHex.MatchString(t):
			m, base := reDec.FindStringSubmatch(t), 10
			if m == nil {
				m, base = reHex.FindStringSubmatch(t), 16
			}
			nb, err1 := strconv.Atoi(m[1])
			val, err2 := strconv.ParseUint(m[2], base, 64)
			if err1 != nil || err2 != nil || nb > 64 {
				return nil, errors.New("testutil: invalid numeric token: " + t)
			}
			if nb < 64 && val>>uint(nb) != 0 {
				return nil, errors.New("testutil: integer overflow on token: " + t)
			}
			v, n = val, uint(nb)
		case reRaw.MatchString(t):
			b, err := hex.DecodeString(t[2:])
			if err != nil {
				return nil, errors.New("testutil: invalid raw bytes token: " + t)
			}
			if err := bb.WriteBytes(bytes.Repeat(b, rep)); err != nil {
				return nil, err
			}
			continue
		default:
			return nil, errors.New("testutil: invalid token: " + t)
		}

		if msb && n > 0 {
			v = internal.ReverseUint64N(v, n)
		}
		for i := 0; i < rep; i++ {
			bb.WriteBits(v, n)
		}
	}
	return bb.Bytes(), nil
}

// tokenizeBitGen splits str into tokens, dropping comments.
func tokenizeBitGen(str string) []string {
	var toks []string
	for _, line := range strings.Split(str, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		toks = append(toks, strings.Fields(line)...)
	}
	return toks
}

// bitBuffer accumulates bits in LSB-first order.
type bitBuffer struct {
	b []byte
	n uint // Number of bits used in the last byte of b; 8 if full
}

func (bb *bitBuffer) WriteBytes(buf []byte) error {
	if bb.n%8 != 0 {
		return errors.New("testutil: unaligned write")
	}
	bb.b = append(bb.b, buf...)
	return nil
}

func (bb *bitBuffer) WriteBits(v uint64, n uint) {
	for i := uint(0); i < n; i++ {
		if bb.n%8 == 0 {
			bb.b = append(bb.b, 0)
			bb.n = 0
		}
		bb.b[len(bb.b)-1] |= byte(v>>i&1) << bb.n
		bb.n++
	}
}

func (bb *bitBuffer) Bytes() []byte {
	return bb.b
}

// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlib

import (
	"bytes"
	"testing"

	"github.com/inflate-go/inflate/flate"
	"github.com/inflate-go/inflate/internal/testutil"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
)

func mustCompress(t *testing.T, b []byte, level int) []byte {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	assert.Nil(t, err)
	_, err = zw.Write(b)
	assert.Nil(t, err)
	assert.Nil(t, zw.Close())
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	var vectors = [][]byte{
		nil,
		[]byte("hello, world"),
		testutil.MustLoadFile("../testdata/digits.txt.xz", -1),
		testutil.Repeats(0, 1<<16),
		testutil.NewRand(0).Bytes(1 << 12),
	}

	d := NewDecompressor()
	for i, v := range vectors {
		for _, level := range []int{zlib.NoCompression, zlib.BestSpeed, zlib.DefaultCompression, zlib.BestCompression} {
			input := append(mustCompress(t, v, level), "trailing"...)
			output := make([]byte, len(v))
			nIn, nOut, err := d.Decompress(input, output)
			assert.Nil(t, err, "test %d, level %d", i, level)
			assert.Equal(t, len(input)-len("trailing"), nIn, "test %d, level %d", i, level)
			assert.Equal(t, len(v), nOut, "test %d, level %d", i, level)
			assert.True(t, bytes.Equal(v, output[:nOut]), "test %d, level %d, output data mismatch", i, level)
		}
	}
}

func TestDecompress(t *testing.T) {
	valid := mustCompress(t, []byte("hello, world"), zlib.DefaultCompression)
	withByte := func(i int, b byte) []byte {
		c := append([]byte(nil), valid...)
		c[i] = b
		return c
	}
	xorByte := func(i int, b byte) []byte {
		c := append([]byte(nil), valid...)
		c[i] ^= b
		return c
	}

	var vectors = []struct {
		desc  string
		input []byte
		size  int
		err   error
	}{
		{"valid", valid, 12, nil},
		{"empty input", nil, 12, ErrCorrupt},
		{"truncated header", valid[:1], 12, ErrCorrupt},
		{"bad compression method", withByte(0, 0x77), 12, ErrCorrupt},
		{"window too large", withByte(0, 0x88), 12, ErrCorrupt},
		{"bad header check", xorByte(1, 0x01), 12, ErrCorrupt},
		{"preset dictionary", testutil.MustDecodeHex("78bb"), 12, ErrCorrupt},
		{"reserved block type", withByte(2, valid[2]|0x06), 12, ErrCorrupt},
		{"missing trailer", valid[:len(valid)-4], 12, ErrCorrupt},
		{"truncated trailer", valid[:len(valid)-1], 12, ErrCorrupt},
		{"bad checksum", xorByte(len(valid)-1, 0x01), 12, ErrChecksum},
		{"short output", valid, 11, flate.ErrShortBuffer},
	}

	d := NewDecompressor()
	for _, v := range vectors {
		_, _, err := d.Decompress(v.input, make([]byte, v.size))
		assert.Equal(t, v.err, err, v.desc)
	}
}

func TestStrategies(t *testing.T) {
	data := testutil.MustLoadFile("../testdata/words.txt.xz", -1)
	input := mustCompress(t, data, zlib.DefaultCompression)
	for _, name := range flate.Strategies() {
		d := NewDecompressor()
		assert.Nil(t, d.SetStrategy(name))
		output := make([]byte, len(data))
		_, nOut, err := d.Decompress(input, output)
		assert.Nil(t, err, name)
		assert.True(t, bytes.Equal(data, output[:nOut]), name)
	}
}

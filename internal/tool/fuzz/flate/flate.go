// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz

// Package flate is a go-fuzz harness that checks every decoding strategy
// against the others and against a streaming reference decoder.
package flate

import (
	"bytes"
	"io"

	"github.com/inflate-go/inflate/flate"
	kpflate "github.com/klauspost/compress/flate"
)

const maxSize = 1 << 20

func Fuzz(data []byte) int {
	want, ok := testReference(data)
	testStrategies(data, want, ok)
	if ok {
		return 1 // Favor valid inputs
	}
	return 0
}

// testReference decodes data with the streaming reader. It reports false if
// the reader rejects the input or the output is larger than maxSize.
func testReference(data []byte) ([]byte, bool) {
	zr := kpflate.NewReader(bytes.NewReader(data))
	defer zr.Close()
	b, err := io.ReadAll(io.LimitReader(zr, maxSize+1))
	if err != nil || len(b) > maxSize {
		return nil, false
	}
	return b, true
}

// testStrategies checks that all strategies agree on success and output, and
// that each one matches the reference whenever the reference succeeds.
func testStrategies(data, want []byte, ok bool) {
	var first []byte
	var firstErr error
	for i, name := range flate.Strategies() {
		d := flate.NewDecompressor()
		if err := d.SetStrategy(name); err != nil {
			panic(err)
		}
		out := make([]byte, maxSize)
		_, n, err := d.Decompress(data, out)
		if ok && (err != nil || !bytes.Equal(out[:n], want)) {
			panic("strategy " + name + ": mismatch with reference decoder")
		}
		if i == 0 {
			first, firstErr = out[:n], err
			continue
		}
		if (err == nil) != (firstErr == nil) {
			panic("strategy " + name + ": disagreement on success")
		}
		if err == nil && !bytes.Equal(out[:n], first) {
			panic("strategy " + name + ": output mismatch")
		}
	}
}

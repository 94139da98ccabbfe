// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build !no_ds_lib

package bench

import (
	"sync"

	"github.com/inflate-go/inflate"
	"github.com/inflate-go/inflate/flate"
	"github.com/inflate-go/inflate/gzip"
	"github.com/inflate-go/inflate/zlib"
)

// A strategyDecompressor is a decompressor whose decoding strategy can be
// fixed.
type strategyDecompressor interface {
	inflate.Decompressor
	SetStrategy(name string) error
}

func init() {
	// Register "ds" with the strategy chosen for this machine, and one
	// codec per strategy to compare them.
	for _, name := range append([]string{""}, flate.Strategies()...) {
		codec := "ds"
		if name != "" {
			codec += "-" + name
		}
		RegisterDecoder(FormatFlate, codec, dsDecoder(func() strategyDecompressor { return flate.NewDecompressor() }, name))
		RegisterDecoder(FormatZlib, codec, dsDecoder(func() strategyDecompressor { return zlib.NewDecompressor() }, name))
		RegisterDecoder(FormatGzip, codec, dsDecoder(func() strategyDecompressor { return gzip.NewDecompressor() }, name))
	}
}

// dsDecoder returns a Decoder safe for concurrent use. Decompressors are
// pooled since each one holds its decode tables.
func dsDecoder(newDecompressor func() strategyDecompressor, strategy string) Decoder {
	pool := sync.Pool{New: func() any {
		d := newDecompressor()
		if err := d.SetStrategy(strategy); err != nil {
			panic(err)
		}
		return d
	}}
	return func(in, out []byte) (int, error) {
		d := pool.Get().(strategyDecompressor)
		defer pool.Put(d)
		_, n, err := d.Decompress(in, out)
		return n, err
	}
}

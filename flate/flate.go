// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import "sync"

var decompressorPool = sync.Pool{
	New: func() interface{} { return NewDecompressor() },
}

// FreeDecompressor releases d for reuse by later calls to Decompress.
// The caller must not use d afterwards.
func FreeDecompressor(d *Decompressor) {
	if d == nil {
		return
	}
	d.strategy = nil
	decompressorPool.Put(d)
}

// Decompress decompresses the raw DEFLATE stream at the start of in into out
// using a pooled Decompressor. See Decompressor.Decompress for details.
// It is safe for concurrent use.
func Decompress(in, out []byte) (nIn, nOut int, err error) {
	d := decompressorPool.Get().(*Decompressor)
	defer FreeDecompressor(d)
	return d.Decompress(in, out)
}

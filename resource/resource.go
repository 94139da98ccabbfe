// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package resource decompresses compressed resources whose size is known
// ahead of time, such as assets embedded into a binary, and keeps the most
// frequently used results in memory.
//
// A resource is either a compressed stream together with its exact
// decompressed size, or a size-prefixed blob: a 4-byte big-endian
// decompressed size followed by a zlib stream.
package resource

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
	"github.com/inflate-go/inflate"
	"github.com/inflate-go/inflate/flate"
	"github.com/inflate-go/inflate/zlib"
)

const prefixSize = 4

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "resource: " + string(e) }

var (
	// ErrSize reports that a resource does not decompress to its declared
	// size.
	ErrSize error = Error("decompressed size mismatch")

	// ErrCorrupt reports a size-prefixed blob that is too short to hold
	// its prefix.
	ErrCorrupt error = Error("blob is corrupted")
)

// Uncompress decompresses a size-prefixed blob.
func Uncompress(blob []byte) ([]byte, error) {
	return uncompress(zlib.NewDecompressor(), blob)
}

func uncompress(d inflate.Decompressor, blob []byte) ([]byte, error) {
	if len(blob) < prefixSize {
		return nil, ErrCorrupt
	}
	size := int(binary.BigEndian.Uint32(blob))
	return decompressExact(d, blob[prefixSize:], size)
}

// decompressExact decompresses in with d into a buffer of exactly size bytes.
func decompressExact(d inflate.Decompressor, in []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrSize
	}
	out := make([]byte, size)
	_, n, err := d.Decompress(in, out)
	switch {
	case err == flate.ErrShortBuffer:
		return nil, ErrSize
	case err != nil:
		return nil, err
	case n != size:
		return nil, ErrSize
	}
	return out, nil
}

// entry is a cached resource. The name is kept to tell apart names whose
// hashes collide.
type entry struct {
	name string
	data []byte
}

// A Cache decompresses resources on demand and retains the most popular
// results, up to a fixed number of resources. It is safe for concurrent use.
type Cache struct {
	decompressors sync.Pool // Of inflate.Decompressor, for Load
	blobs         sync.Pool // Of *zlib.Decompressor, for LoadBlob

	mu  sync.Mutex
	lfu *tinylfu.T[uint64, entry] // Nil if nothing is retained

	hits, misses atomic.Uint64
}

// NewCache returns a Cache that holds up to capacity resources and that
// decompresses the streams passed to Load with decompressors returned by
// newDecompressor. A nil newDecompressor selects raw DEFLATE. Blobs passed to
// LoadBlob are always zlib streams.
//
// If capacity <= 0, nothing is retained and every load decompresses.
func NewCache(capacity int, newDecompressor func() inflate.Decompressor) *Cache {
	if newDecompressor == nil {
		newDecompressor = func() inflate.Decompressor { return flate.NewDecompressor() }
	}
	c := new(Cache)
	if capacity > 0 {
		c.lfu = tinylfu.New[uint64, entry](capacity, capacity*10, func(k uint64) uint64 { return k })
	}
	c.decompressors.New = func() interface{} { return newDecompressor() }
	c.blobs.New = func() interface{} { return zlib.NewDecompressor() }
	return c
}

// Load returns the named resource, decompressing it from compressed if it is
// not cached. The decompressed data must be exactly size bytes.
//
// The returned slice is shared by all callers and must not be modified.
func (c *Cache) Load(name string, compressed []byte, size int) ([]byte, error) {
	return c.load(name, &c.decompressors, func(d inflate.Decompressor) ([]byte, error) {
		return decompressExact(d, compressed, size)
	})
}

// LoadBlob is like Load for a size-prefixed blob.
func (c *Cache) LoadBlob(name string, blob []byte) ([]byte, error) {
	return c.load(name, &c.blobs, func(d inflate.Decompressor) ([]byte, error) {
		return uncompress(d, blob)
	})
}

func (c *Cache) load(name string, pool *sync.Pool, decompress func(inflate.Decompressor) ([]byte, error)) ([]byte, error) {
	key := xxhash.Sum64String(name)
	if c.lfu != nil {
		c.mu.Lock()
		e, ok := c.lfu.Get(key)
		c.mu.Unlock()
		if ok && e.name == name {
			c.hits.Add(1)
			return e.data, nil
		}
	}
	c.misses.Add(1)

	d := pool.Get().(inflate.Decompressor)
	data, err := decompress(d)
	pool.Put(d)
	if err != nil || c.lfu == nil {
		return data, err
	}

	// Another caller may have loaded the same resource in the meantime.
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.lfu.Get(key); ok && e.name == name {
		return e.data, nil
	}
	c.lfu.Add(key, entry{name, data})
	return data, nil
}

// Stats reports the number of Load and LoadBlob calls that were served from
// the cache and the number that had to decompress.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import "encoding/binary"

// The bitReader serves bits from an in-memory input buffer, least-significant
// bit first, as DEFLATE requires.
//
// The buffer holds at most 63 bits, so that a refill can always top it up to
// at least 56 bits by adding whole bytes. With the word-wise refill, the
// buffer is loaded 8 bytes at a time from an unaligned position and the input
// position advances only by the number of whole bytes that fit. The bits
// above numBits are then copies of the next input bits rather than zeros,
// which is harmless since every read masks them off and any later refill
// ORs in those same bits again.
//
// Once the input is exhausted, the refill feeds zero bytes and counts them as
// overread. Lookahead may legitimately overread by a few bytes at the end of
// the stream; overreading more than the size of the buffer means the stream
// ended before the data it describes.

const (
	bitBufBits   = 63
	refillTarget = bitBufBits &^ 7 // 56
)

type bitReader struct {
	in       []byte
	pos      int    // Position of the next byte to load from in
	bufBits  uint64 // Buffer to hold some bits
	numBits  uint   // Number of valid bits in bufBits
	overread int    // Number of zero bytes loaded past the end of in
	wordwise bool   // Refill 8 bytes at a time when possible
}

func (br *bitReader) Init(in []byte, wordwise bool) {
	*br = bitReader{in: in, wordwise: wordwise}
}

// Refill fills the bit buffer with at least 56 valid bits.
func (br *bitReader) Refill() {
	if br.wordwise && len(br.in)-br.pos >= 8 {
		br.refillWord()
		return
	}
	for br.numBits < refillTarget {
		if br.pos < len(br.in) {
			br.bufBits |= uint64(br.in[br.pos]) << br.numBits
			br.pos++
		} else {
			if br.overread >= 8 {
				panic(ErrCorrupt)
			}
			br.overread++
		}
		br.numBits += 8
	}
}

// refillWord refills the bit buffer without branching on the current bit
// count. The caller must ensure that at least 8 bytes of input remain.
func (br *bitReader) refillWord() {
	br.bufBits |= binary.LittleEndian.Uint64(br.in[br.pos:]) << br.numBits
	br.pos += 7 - int(br.numBits>>3)&7
	br.numBits |= refillTarget
}

// Ensure guarantees that at least nb bits are buffered. nb must be <= 56.
func (br *bitReader) Ensure(nb uint) {
	if br.numBits < nb {
		br.Refill()
	}
}

// Peek returns the next nb buffered bits without consuming them.
func (br *bitReader) Peek(nb uint) uint32 {
	return uint32(br.bufBits & (1<<nb - 1))
}

// Consume discards nb bits, which must already be buffered.
func (br *bitReader) Consume(nb uint) {
	br.bufBits >>= nb
	br.numBits -= nb
}

// ReadBits reads nb bits in LSB order from the input. nb must be <= 32.
func (br *bitReader) ReadBits(nb uint) uint32 {
	br.Ensure(nb)
	v := br.Peek(nb)
	br.Consume(nb)
	return v
}

// ReadPads discards any bits up to the next byte boundary and rewinds the
// input position to the first unconsumed byte, leaving the bit buffer empty.
// This must be called before reading byte-aligned data directly from the input.
func (br *bitReader) ReadPads() {
	whole := int(br.numBits >> 3)
	if br.overread > whole {
		panic(ErrCorrupt)
	}
	br.pos -= whole - br.overread
	br.bufBits, br.numBits, br.overread = 0, 0, 0
}

// CheckOverread verifies that no zero byte loaded past the end of the input
// has been consumed as part of the stream.
func (br *bitReader) CheckOverread() {
	if br.overread > int(br.numBits>>3) {
		panic(ErrCorrupt)
	}
}

// InputOffset reports the number of input bytes that hold at least one
// consumed bit. The result is the same regardless of how the buffer was filled.
func (br *bitReader) InputOffset() int {
	n := br.pos + br.overread - int(br.numBits>>3)
	if n > len(br.in) {
		n = len(br.in)
	}
	return n
}

// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import "math/bits"

// makeEntry combines a decode result with the length of the codeword that
// leads to it. The length is stored twice: once to be added to the number of
// extra bits (bits 0-7) and once on its own (bits 8-15).
func makeEntry(result uint32, n uint) uint32 {
	return result + uint32(n)<<8 + uint32(n)
}

// buildDecodeTable builds a decode table for the canonical prefix code
// described by lens, where lens[sym] is the codeword length of sym and zero
// marks an unused symbol. Each decoded symbol sym yields results[sym] merged
// with its codeword length.
//
// The main table is indexed by the next tableBits bits of input. Codewords
// longer than tableBits are resolved with a second lookup into a subtable
// that follows the main table. Every entry of the main table and of each
// allocated subtable is written, so a corrupted stream never reads a stale
// entry.
//
// It reports false if the code is overfull or incomplete. Two incomplete
// codes are allowed: the empty code, and a code with a single codeword of
// length one, in which case both one-bit codewords decode to that symbol.
func buildDecodeTable(table []uint32, lens []uint8, results []uint32, tableBits, maxBits uint, sorted []uint16) bool {
	var cnts [maxPrefixBits + 1]uint32
	var offsets [maxPrefixBits + 1]uint32

	// Count the number of codewords of each length.
	for _, n := range lens {
		cnts[n]++
	}
	for maxBits > 1 && cnts[maxBits] == 0 {
		maxBits--
	}

	// Sort the symbols by codeword length, then by symbol value, and tally the
	// amount of codespace used on the way.
	var codespace uint32
	offsets[1] = cnts[0]
	for n := uint(1); n < maxBits; n++ {
		offsets[n+1] = offsets[n] + cnts[n]
		codespace = codespace<<1 + cnts[n]
	}
	codespace = codespace<<1 + cnts[maxBits]
	for sym, n := range lens {
		sorted[offsets[n]] = uint16(sym)
		offsets[n]++
	}
	syms := sorted[offsets[0]:] // Skip the unused symbols

	switch full := uint32(1) << maxBits; {
	case codespace > full:
		return false // Overfull code
	case codespace < full:
		var entry uint32
		switch {
		case codespace == 0:
			// Empty code; any lookup is as good as another.
			entry = makeEntry(results[0], 1)
		case codespace == full>>1 && cnts[1] == 1:
			entry = makeEntry(results[syms[0]], 1)
		default:
			return false // Incomplete code
		}
		for i := range table[:1<<tableBits] {
			table[i] = entry
		}
		return true
	}

	// The code is complete. Walk the codewords in bit-reversed order, since
	// that is the order in which DEFLATE packs them, starting with the shortest.
	// Each codeword up to tableBits in length is stored once, at the index
	// equal to its bit-reversed value. Whenever the length grows, the filled
	// part of the table is doubled, which replicates each entry to every index
	// whose low bits match the codeword.
	var codeword uint32
	n := uint(1)
	cnt := cnts[n]
	for cnt == 0 {
		n++
		cnt = cnts[n]
	}
	end := uint32(1) << n
	for n <= tableBits {
		for ; cnt > 0; cnt-- {
			table[codeword] = makeEntry(results[syms[0]], n)
			syms = syms[1:]
			if codeword == end-1 {
				// Last codeword (all ones).
				for ; n < tableBits; n++ {
					copy(table[end:end<<1], table[:end])
					end <<= 1
				}
				return true
			}
			codeword = nextCodeword(codeword, end-1)
		}

		// Advance to the next codeword length.
		for cnt == 0 {
			n++
			if n <= tableBits {
				copy(table[end:end<<1], table[:end])
				end <<= 1
			}
			cnt = cnts[n]
		}
	}

	// The remaining codewords are longer than tableBits. Codewords sharing
	// the same low tableBits bits go into the same subtable, which is sized
	// to the smallest power of two that the codewords with that prefix fill
	// exactly.
	end = uint32(1) << tableBits
	prefix := ^uint32(0)
	var start uint32
	for {
		if p := codeword & (1<<tableBits - 1); p != prefix {
			prefix = p
			start = end
			subBits := n - tableBits
			used := cnt
			for used < 1<<subBits {
				subBits++
				used = used<<1 + cnts[tableBits+subBits]
			}
			end = start + 1<<subBits
			table[prefix] = start<<16 | exceptionalFlag | subtableFlag | uint32(subBits)<<8 | uint32(tableBits)
		}

		entry := makeEntry(results[syms[0]], n-tableBits)
		syms = syms[1:]
		for i, stride := start+codeword>>tableBits, uint32(1)<<(n-tableBits); i < end; i += stride {
			table[i] = entry
		}

		if codeword == 1<<n-1 {
			return true // Last codeword (all ones)
		}
		codeword = nextCodeword(codeword, 1<<n-1)
		cnt--
		for cnt == 0 {
			n++
			cnt = cnts[n]
		}
	}
}

// nextCodeword returns the codeword that follows codeword in bit-reversed
// order, where mask has a one for every bit of the current codeword length.
// This increments the bit-reversed value: the highest zero bit is set and
// all bits above it are cleared.
func nextCodeword(codeword, mask uint32) uint32 {
	bit := uint32(1) << (bits.Len32(codeword^mask) - 1)
	return codeword&(bit-1) | bit
}

// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

const maxPrefixBits = 15

const (
	maxNumCLenSyms = 19
	maxNumLitSyms  = 288 // Includes the two reserved symbols 286 and 287
	maxNumDistSyms = 32  // Includes the two reserved symbols 30 and 31

	maxCLenBits = 7

	// Largest number of literal/length codes a dynamic block may declare.
	maxHLit = 286
)

// Decode table geometry. The table sizes are the worst-case number of entries
// (main table plus all subtables) over every complete code with the given
// symbol count, main table width, and maximum codeword length.
const (
	clenTableBits = 7
	clenEnough    = 128 // 1 << clenTableBits; no subtables

	litTableBits = 11
	litEnough    = 2342 // Worst case for 288 symbols with 15-bit codewords

	distTableBits = 9
	distEnough    = 594 // Worst case for 32 symbols with 15-bit codewords
)

// The dynamic header decoder writes whole repeat runs without checking the
// remaining space first. The longest run (symbol 18) writes 138 lengths, so
// the scratch array needs that many minus one entries of slack.
const lensOverrun = 137

// Flags of a decode table entry.
//
// Every entry keeps the total number of bits it accounts for in bits 0-7 and
// the codeword length alone in bits 8-15 (for entries with extra bits).
// Literal entries carry the byte in bits 16-23; length and distance entries
// carry the base value in bits 16-31; subtable pointers carry the subtable
// start in bits 16-31 and the subtable width in bits 8-13.
const (
	literalFlag     = 0x80000000
	exceptionalFlag = 0x00008000
	subtableFlag    = 0x00004000
	endOfBlockFlag  = 0x00002000
)

var (
	// RFC section 3.2.7.
	// Prefix code lengths for code lengths alphabet.
	clenLens = [maxNumCLenSyms]uint{
		16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
	}
)

var (
	clenResults [maxNumCLenSyms]uint32 // Precode symbol in bits 16-23
	litResults  [maxNumLitSyms]uint32  // RFC section 3.2.5
	distResults [maxNumDistSyms]uint32 // RFC section 3.2.5

	fixedLitLens  [maxNumLitSyms]uint8  // RFC section 3.2.6
	fixedDistLens [maxNumDistSyms]uint8 // RFC section 3.2.6
)

func init() {
	initPrefixLUTs()
}

func initPrefixLUTs() {
	for i := range clenResults {
		clenResults[i] = uint32(i) << 16
	}

	// These come from the RFC section 3.2.5.
	for i := 0; i < endBlockSym; i++ {
		litResults[i] = literalFlag | uint32(i)<<16
	}
	litResults[endBlockSym] = exceptionalFlag | endOfBlockFlag
	for i, base := 0, 3; i < maxHLit-257-1; i++ {
		nb := uint(i/4 - 1)
		if i < 4 {
			nb = 0
		}
		litResults[257+i] = uint32(base)<<16 | uint32(nb)
		base += 1 << nb
	}
	litResults[maxHLit-1] = 258 << 16
	for i := maxHLit; i < maxNumLitSyms; i++ {
		litResults[i] = exceptionalFlag
	}

	// These come from the RFC section 3.2.5.
	for i, base := 0, 1; i < 30; i++ {
		nb := uint(i/2 - 1)
		if i < 2 {
			nb = 0
		}
		distResults[i] = uint32(base)<<16 | uint32(nb)
		base += 1 << nb
	}
	for i := 30; i < maxNumDistSyms; i++ {
		distResults[i] = exceptionalFlag
	}

	// These come from the RFC section 3.2.6.
	for i := range fixedLitLens {
		switch {
		case i < 144:
			fixedLitLens[i] = 8
		case i < 256:
			fixedLitLens[i] = 9
		case i < 280:
			fixedLitLens[i] = 7
		default:
			fixedLitLens[i] = 8
		}
	}
	for i := range fixedDistLens {
		fixedDistLens[i] = 5
	}
}

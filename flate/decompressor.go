// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import "encoding/binary"

// A Decompressor holds the working memory needed to decompress a DEFLATE
// stream. It may be reused for any number of streams, but must not be used
// by multiple goroutines at the same time.
type Decompressor struct {
	rd     bitReader // Input source
	out    []byte    // Output buffer for the current call
	outPos int       // Number of bytes written to out
	last   bool      // Last block bit detected

	step     func(*Decompressor) // Single step of decompression work (can panic)
	strategy *strategy           // Fixed strategy, or nil to use the default

	// Whether litTable and distTable hold the fixed codes of RFC section 3.2.6.
	staticLoaded bool

	// Codeword lengths of the literal/length and distance codes of a dynamic
	// block, stored back to back.
	lens     [maxNumLitSyms + maxNumDistSyms + lensOverrun]uint8
	clenLens [maxNumCLenSyms]uint8
	sorted   [maxNumLitSyms]uint16

	clenTable [clenEnough]uint32
	litTable  [litEnough]uint32
	distTable [distEnough]uint32
}

// NewDecompressor returns a new Decompressor that uses the default strategy.
func NewDecompressor() *Decompressor {
	return new(Decompressor)
}

// Decompress decompresses the raw DEFLATE stream at the start of in into out.
// On success, it reports how many bytes of in the stream spanned and how many
// bytes were written to out. Any input after the final block is ignored.
//
// It returns ErrShortBuffer if out is too small to hold the decompressed data
// and ErrCorrupt if in is not a valid DEFLATE stream. On failure, nOut is the
// number of bytes written to out before the error was detected and nIn is the
// number of input bytes read up to that point.
func (d *Decompressor) Decompress(in, out []byte) (nIn, nOut int, err error) {
	s := d.strategy
	if s == nil {
		s = selectedStrategy()
	}
	return d.decompress(in, out, s)
}

func (d *Decompressor) decompress(in, out []byte, s *strategy) (nIn, nOut int, err error) {
	d.rd.Init(in, s.wordwise)
	d.out, d.outPos, d.last = out, 0, false
	d.step = (*Decompressor).readBlockHeader
	defer func() {
		nIn, nOut = d.rd.InputOffset(), d.outPos
		d.rd.in, d.out, d.step = nil, nil, nil
	}()
	defer errRecover(&err)

	for d.step != nil {
		d.step(d)
	}
	d.rd.CheckOverread()
	return nIn, nOut, nil
}

// readBlockHeader reads the block header according to RFC section 3.2.3.
func (d *Decompressor) readBlockHeader() {
	if d.last {
		d.step = nil
		return
	}

	d.rd.Ensure(3)
	d.last = d.rd.ReadBits(1) == 1
	switch d.rd.ReadBits(2) {
	case 0:
		// Raw block (RFC section 3.2.4).
		d.step = (*Decompressor).readRawData
	case 1:
		// Fixed prefix block (RFC section 3.2.6).
		d.step = (*Decompressor).loadFixedCodes
	case 2:
		// Dynamic prefix block (RFC section 3.2.7).
		d.step = (*Decompressor).readPrefixCodes
	default:
		// Reserved block (RFC section 3.2.3).
		panic(ErrCorrupt)
	}
}

// readRawData reads raw data according to RFC section 3.2.4.
func (d *Decompressor) readRawData() {
	br := &d.rd
	br.ReadPads()

	in := br.in[br.pos:]
	if len(in) < 4 {
		panic(ErrCorrupt)
	}
	n := binary.LittleEndian.Uint16(in[0:])
	nn := binary.LittleEndian.Uint16(in[2:])
	if n^nn != 0xffff {
		panic(ErrCorrupt)
	}
	in = in[4:]
	br.pos += 4

	if int(n) > len(d.out)-d.outPos {
		panic(ErrShortBuffer)
	}
	if int(n) > len(in) {
		panic(ErrCorrupt)
	}
	d.outPos += copy(d.out[d.outPos:], in[:n])
	br.pos += int(n)
	d.step = (*Decompressor).readBlockHeader
}

// loadFixedCodes prepares the decode tables for the fixed prefix codes
// according to RFC section 3.2.6. The tables are kept until a dynamic block
// overwrites them.
func (d *Decompressor) loadFixedCodes() {
	if !d.staticLoaded {
		if !buildDecodeTable(d.distTable[:], fixedDistLens[:], distResults[:], distTableBits, maxPrefixBits, d.sorted[:]) ||
			!buildDecodeTable(d.litTable[:], fixedLitLens[:], litResults[:], litTableBits, maxPrefixBits, d.sorted[:]) {
			panic("flate: invalid fixed prefix codes")
		}
		d.staticLoaded = true
	}
	d.step = (*Decompressor).readBlock
}

// readPrefixCodes reads the literal/length and distance prefix codes of a
// dynamic block according to RFC section 3.2.7.
func (d *Decompressor) readPrefixCodes() {
	br := &d.rd
	br.Ensure(14)
	numLitSyms := int(br.ReadBits(5)) + 257
	numDistSyms := int(br.ReadBits(5)) + 1
	numCLenSyms := int(br.ReadBits(4)) + 4
	if numLitSyms > maxHLit {
		panic(ErrCorrupt)
	}

	// The tables are about to be overwritten.
	d.staticLoaded = false

	// Read the code-lengths prefix table.
	for i, sym := range clenLens {
		var n uint8
		if i < numCLenSyms {
			n = uint8(br.ReadBits(3))
		}
		d.clenLens[sym] = n
	}
	if !buildDecodeTable(d.clenTable[:], d.clenLens[:], clenResults[:], clenTableBits, maxCLenBits, d.sorted[:]) {
		panic(ErrCorrupt)
	}

	// Decode the literal/length and distance codeword lengths, which are run
	// length encoded with the code-lengths code. A repeat may run past the
	// end of the declared symbols into the overrun area, which is caught by
	// the final count check.
	lens := d.lens[:]
	total := numLitSyms + numDistSyms
	var i int
	for i < total {
		br.Ensure(maxCLenBits + 7)
		entry := d.clenTable[br.Peek(clenTableBits)]
		br.Consume(uint(entry & 0xff))
		sym := entry >> 16

		var val uint8
		var rep int
		switch {
		case sym < 16:
			lens[i] = uint8(sym)
			i++
			continue
		case sym == 16:
			if i == 0 {
				panic(ErrCorrupt)
			}
			val, rep = lens[i-1], 3+int(br.ReadBits(2))
		case sym == 17:
			rep = 3 + int(br.ReadBits(3))
		default:
			rep = 11 + int(br.ReadBits(7))
		}
		for j := range lens[i : i+rep] {
			lens[i+j] = val
		}
		i += rep
	}
	if i != total {
		panic(ErrCorrupt)
	}

	litLens := lens[:numLitSyms]
	distLens := lens[numLitSyms:total]
	if !buildDecodeTable(d.distTable[:], distLens, distResults[:], distTableBits, maxPrefixBits, d.sorted[:]) {
		panic(ErrCorrupt)
	}
	if !buildDecodeTable(d.litTable[:], litLens, litResults[:], litTableBits, maxPrefixBits, d.sorted[:]) {
		panic(ErrCorrupt)
	}
	d.step = (*Decompressor).readBlock
}

// readBlock reads block commands according to RFC section 3.2.3.
func (d *Decompressor) readBlock() {
	if d.rd.wordwise && d.readBlockFast() {
		d.step = (*Decompressor).readBlockHeader
		return
	}

	br := &d.rd
	for {
		// Every literal/length symbol with its extra bits and every distance
		// symbol with its extra bits fit in a single refill.
		br.Ensure(maxCommandBits)

		// Read the literal/length symbol.
		entry := d.litTable[br.Peek(litTableBits)]
		if entry&subtableFlag != 0 {
			br.Consume(litTableBits)
			entry = d.litTable[entry>>16+br.Peek(uint(entry>>8)&0x3f)]
		}
		saved := br.bufBits
		br.Consume(uint(entry & 0xff))
		if entry&literalFlag != 0 {
			if d.outPos >= len(d.out) {
				panic(ErrShortBuffer)
			}
			d.out[d.outPos] = byte(entry >> 16)
			d.outPos++
			continue
		}
		if entry&exceptionalFlag != 0 {
			if entry&endOfBlockFlag != 0 {
				d.step = (*Decompressor).readBlockHeader
				return
			}
			panic(ErrCorrupt) // Reserved symbol
		}
		cnt := int(entry>>16) + extraBits(saved, entry)
		if cnt > len(d.out)-d.outPos {
			panic(ErrShortBuffer)
		}

		// Read the distance symbol.
		entry = d.distTable[br.Peek(distTableBits)]
		if entry&subtableFlag != 0 {
			br.Consume(distTableBits)
			entry = d.distTable[entry>>16+br.Peek(uint(entry>>8)&0x3f)]
		}
		if entry&exceptionalFlag != 0 {
			panic(ErrCorrupt) // Reserved symbol
		}
		saved = br.bufBits
		br.Consume(uint(entry & 0xff))
		dist := int(entry>>16) + extraBits(saved, entry)
		if dist > d.outPos {
			panic(ErrCorrupt)
		}
		d.writeCopy(dist, cnt)
	}
}

// maxCommandBits is the most bits consumed by a length and distance pair:
// a 15-bit length code with 5 extra bits and a 15-bit distance code with 13
// extra bits.
const maxCommandBits = (maxPrefixBits + 5) + (maxPrefixBits + 13)

// extraBits extracts the extra bits of a length or distance entry from the
// bit buffer as it was before the entry was consumed.
func extraBits(saved uint64, entry uint32) int {
	n := uint(entry & 0xff)
	return int((saved & (1<<n - 1)) >> (uint(entry>>8) & 0xff))
}

// writeCopy copies cnt bytes starting dist bytes back from the current output
// position. The source and destination may overlap, in which case the bytes
// copied earlier in the match are repeated.
func (d *Decompressor) writeCopy(dist, cnt int) {
	src := d.outPos - dist
	end := d.outPos + cnt
	for d.outPos < end {
		d.outPos += copy(d.out[d.outPos:end], d.out[src:d.outPos])
	}
}

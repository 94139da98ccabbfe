// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

// Worst-case input and output used by one iteration of readBlockFast.
const (
	fastInputSlack  = 8   // One word-wise refill
	fastOutputSlack = 258 // One maximum length copy
)

// readBlockFast decodes commands of the current block for as long as enough
// input and output remains that no iteration can run out of either. This
// allows it to skip the output space checks and to refill the bit buffer a
// word at a time. It reports whether the end of the block was reached; if
// not, the rest of the block is decoded by readBlock.
func (d *Decompressor) readBlockFast() bool {
	br := &d.rd
	for len(br.in)-br.pos >= fastInputSlack && len(d.out)-d.outPos >= fastOutputSlack {
		br.refillWord()

		entry := d.litTable[br.Peek(litTableBits)]
		if entry&subtableFlag != 0 {
			br.Consume(litTableBits)
			entry = d.litTable[entry>>16+br.Peek(uint(entry>>8)&0x3f)]
		}
		saved := br.bufBits
		br.Consume(uint(entry & 0xff))
		if entry&literalFlag != 0 {
			d.out[d.outPos] = byte(entry >> 16)
			d.outPos++
			continue
		}
		if entry&exceptionalFlag != 0 {
			if entry&endOfBlockFlag != 0 {
				return true
			}
			panic(ErrCorrupt)
		}
		cnt := int(entry>>16) + extraBits(saved, entry)

		entry = d.distTable[br.Peek(distTableBits)]
		if entry&subtableFlag != 0 {
			br.Consume(distTableBits)
			entry = d.distTable[entry>>16+br.Peek(uint(entry>>8)&0x3f)]
		}
		if entry&exceptionalFlag != 0 {
			panic(ErrCorrupt)
		}
		saved = br.bufBits
		br.Consume(uint(entry & 0xff))
		dist := int(entry>>16) + extraBits(saved, entry)
		if dist > d.outPos {
			panic(ErrCorrupt)
		}
		d.writeCopy(dist, cnt)
	}
	return false
}

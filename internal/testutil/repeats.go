// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

// Repeats generates size bytes of test data that heavily favors LZ77 based
// compression since a large bulk of its data is a copy from some distance ago.
// Also, since the source data is mostly random, prefix encoding does not
// benefit as much. The output is fully determined by seed.
func Repeats(seed, size int) []byte {
	var b []byte
	r := NewRand(seed)
	prob := func() int { return r.Intn(100) } // Percentage in 0..99

	// randRange returns a random value in [lo, 2*lo).
	randRange := func(lo int) int { return lo + r.Intn(lo) }

	randLen := func() int {
		switch p := prob(); {
		case p < 15:
			return randRange(4)
		case p < 30:
			return randRange(8)
		case p < 45:
			return randRange(16)
		case p < 60:
			return randRange(32)
		case p < 75:
			return randRange(64)
		case p < 90:
			return randRange(128)
		default:
			return randRange(256)
		}
	}

	randDist := func() (d int) {
		for d == 0 || d > len(b) {
			switch p := prob(); {
			case p < 10:
				d = 1
			case p < 20:
				d = randRange(2)
			case p < 30:
				d = randRange(4)
			case p < 40:
				d = randRange(8)
			case p < 50:
				d = randRange(16)
			case p < 55:
				d = randRange(32)
			case p < 60:
				d = randRange(64)
			case p < 65:
				d = randRange(128)
			case p < 70:
				d = randRange(256)
			case p < 75:
				d = randRange(512)
			case p < 80:
				d = randRange(1024)
			case p < 85:
				d = randRange(2048)
			case p < 90:
				d = randRange(4096)
			case p < 95:
				d = randRange(8192)
			default:
				d = randRange(16384)
			}
		}
		return d
	}

	writeRand := func(l int) {
		b = append(b, r.Bytes(l)...)
	}

	writeCopy := func(d, l int) {
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}

	writeRand(randRange(256))
	for len(b) < size {
		switch p := prob(); {
		case p < 10:
			// Generate random new data.
			writeRand(randLen())
		case p < 90:
			// Write a long distance copy.
			d, l := randDist(), randLen()
			for d <= l {
				d, l = randDist(), randLen()
			}
			writeCopy(d, l)
		default:
			// Write a possibly short distance copy.
			writeCopy(randDist(), randLen())
		}
	}
	return b[:size]
}

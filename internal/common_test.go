// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package internal

import "testing"

func TestReverse(t *testing.T) {
	var vectors = []struct {
		v    uint64
		n    uint
		want uint64
	}{
		{0x1, 1, 0x1},
		{0x1, 3, 0x4},
		{0x6, 3, 0x3},
		{0x0b, 5, 0x1a},
		{0x7ff, 15, 0x7ff0},
		{0xdeadbeef, 32, 0xf77db57b},
	}
	for i, v := range vectors {
		if got := ReverseUint64N(v.v, v.n); got != v.want {
			t.Errorf("test %d, ReverseUint64N(0x%x, %d) = 0x%x, want 0x%x", i, v.v, v.n, got, v.want)
		}
		if v.n <= 32 {
			if got := ReverseUint32N(uint32(v.v), v.n); uint64(got) != v.want {
				t.Errorf("test %d, ReverseUint32N(0x%x, %d) = 0x%x, want 0x%x", i, v.v, v.n, got, v.want)
			}
		}
	}
}

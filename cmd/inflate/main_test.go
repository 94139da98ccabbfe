// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/inflate-go/inflate"
	"github.com/inflate-go/inflate/internal/testutil"
	kpgzip "github.com/klauspost/compress/gzip"
	kpzlib "github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-format", "ZLIB", "-size", "1000", "-limit", "1e6", "-o", "out", "-strategy", "generic", "-v", "in.z"})
	assert.Nil(t, err)
	assert.Equal(t, &config{
		format:   inflate.FormatZlib,
		size:     1000,
		limit:    1000000,
		output:   "out",
		strategy: "generic",
		input:    "in.z",
		debug:    true,
	}, cfg)

	for _, args := range [][]string{
		{},
		{"a", "b"},
		{"-format", "lzma", "in"},
		{"-size", "-5", "in"},
		{"-limit", "1.5", "in"},
		{"-size", "many", "in"},
	} {
		_, err := parseFlags(args)
		assert.NotNil(t, err, "args %q", args)
	}
}

func TestParseSize(t *testing.T) {
	var vectors = []struct {
		input string
		want  int
		err   bool
	}{
		{"4096", 4096, false},
		{"1e6", 1000000, false},
		{"64Ki", 64 << 10, false},
		{"1Gi", 1 << 30, false},
		{"1.5", 0, true},
		{"-1", 0, true},
		{"lots", 0, true},
	}
	for i, v := range vectors {
		got, err := parseSize(v.input)
		if v.err {
			assert.NotNil(t, err, "test %d, %q", i, v.input)
			continue
		}
		assert.Nil(t, err, "test %d, %q", i, v.input)
		assert.Equal(t, v.want, got, "test %d, %q", i, v.input)
	}

	cfg, err := parseFlags([]string{"in"})
	assert.Nil(t, err)
	assert.Equal(t, 1<<30, cfg.limit)
	assert.Equal(t, 0, cfg.size)
}

func TestRun(t *testing.T) {
	data := testutil.MustLoadFile("../../testdata/words.txt.xz", 1<<16)

	var zbuf, gbuf bytes.Buffer
	zw := kpzlib.NewWriter(&zbuf)
	zw.Write(data)
	assert.Nil(t, zw.Close())
	gw := kpgzip.NewWriter(&gbuf)
	gw.Write(data)
	assert.Nil(t, gw.Close())
	raw := testutil.MustCompress(data, 6)

	var vectors = []struct {
		desc string
		cfg  config
		in   []byte
		err  bool
	}{
		{"raw", config{format: inflate.FormatRaw}, raw, false},
		{"auto raw", config{format: inflate.FormatAuto}, raw, false},
		{"auto zlib", config{format: inflate.FormatAuto}, zbuf.Bytes(), false},
		{"auto gzip", config{format: inflate.FormatAuto}, gbuf.Bytes(), false},
		{"gzip small hint", config{format: inflate.FormatGzip, size: 10}, gbuf.Bytes(), false},
		{"zlib generic", config{format: inflate.FormatZlib, strategy: "generic"}, zbuf.Bytes(), false},
		{"raw wordwise", config{format: inflate.FormatRaw, strategy: "wordwise"}, raw, false},
		{"unknown strategy", config{format: inflate.FormatRaw, strategy: "simd"}, raw, true},
		{"limit", config{format: inflate.FormatRaw, limit: 1 << 10}, raw, true},
		{"wrong format", config{format: inflate.FormatGzip}, zbuf.Bytes(), true},
	}
	for _, v := range vectors {
		v.cfg.input = v.desc
		out, err := run(&v.cfg, v.in)
		if v.err {
			assert.NotNil(t, err, v.desc)
			continue
		}
		assert.Nil(t, err, v.desc)
		assert.True(t, bytes.Equal(data, out), "%s: output data mismatch", v.desc)
	}
}

func TestReadWrite(t *testing.T) {
	name := filepath.Join(t.TempDir(), "data")
	assert.Nil(t, writeOutput(name, []byte("hello")))
	b, err := readInput(name)
	assert.Nil(t, err)
	assert.Equal(t, "hello", string(b))

	_, err = readInput(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

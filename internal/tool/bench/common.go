// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the performance of various DEFLATE decompressors
// with respect to decode speed, and of the encoders used to produce their
// input with respect to encode speed and ratio.
package bench

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/inflate-go/inflate/internal/testutil"
)

type Format int

const (
	FormatFlate Format = iota
	FormatZlib
	FormatGzip
)

func (f Format) String() string {
	switch f {
	case FormatFlate:
		return "flate"
	case FormatZlib:
		return "zlib"
	case FormatGzip:
		return "gzip"
	default:
		return "unknown"
	}
}

const (
	TestEncodeRate = iota
	TestDecodeRate
	TestCompressRatio
)

// An Encoder returns a writer that compresses into w at the given level.
type Encoder func(w io.Writer, lvl int) io.WriteCloser

// A Decoder decompresses the entirety of in into out, which is exactly the
// size of the decompressed data, and returns the number of bytes written.
type Decoder func(in, out []byte) (int, error)

var (
	Encoders map[Format]map[string]Encoder
	Decoders map[Format]map[string]Decoder

	// List of search paths for test files.
	Paths []string
)

func RegisterEncoder(format Format, name string, enc Encoder) {
	if Encoders == nil {
		Encoders = make(map[Format]map[string]Encoder)
	}
	if Encoders[format] == nil {
		Encoders[format] = make(map[string]Encoder)
	}
	Encoders[format][name] = enc
}

func RegisterDecoder(format Format, name string, dec Decoder) {
	if Decoders == nil {
		Decoders = make(map[Format]map[string]Decoder)
	}
	if Decoders[format] == nil {
		Decoders[format] = make(map[string]Decoder)
	}
	Decoders[format][name] = dec
}

// streamDecoder adapts a streaming decompressor to a Decoder. The reader must
// produce exactly len(out) bytes followed by io.EOF.
func streamDecoder(newReader func(io.Reader) (io.ReadCloser, error)) Decoder {
	return func(in, out []byte) (int, error) {
		rd, err := newReader(bytes.NewReader(in))
		if err != nil {
			return 0, err
		}
		n, err := io.ReadFull(rd, out)
		if err != nil {
			rd.Close()
			return n, err
		}
		var b [1]byte
		if m, err := rd.Read(b[:]); m > 0 || (err != nil && err != io.EOF) {
			rd.Close()
			if err == nil {
				err = io.ErrShortBuffer
			}
			return n, err
		}
		return n, rd.Close()
	}
}

// Encode compresses input with enc at the given level.
func Encode(input []byte, enc Encoder, lvl int) ([]byte, error) {
	var buf bytes.Buffer
	wr := enc(&buf, lvl)
	if _, err := wr.Write(input); err != nil {
		wr.Close()
		return nil, err
	}
	if err := wr.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BenchmarkEncoder measures how fast enc compresses input at level lvl.
func BenchmarkEncoder(input []byte, enc Encoder, lvl int) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		if enc == nil {
			b.Fatalf("unexpected error: nil Encoder")
		}
		b.SetBytes(int64(len(input)))
		runtime.GC()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			wr := enc(io.Discard, lvl)
			if _, err := wr.Write(input); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			if err := wr.Close(); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
		}
	})
}

// BenchmarkDecoder measures how fast dec decompresses input, whose
// decompressed size is size.
func BenchmarkDecoder(input []byte, size int, dec Decoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		if dec == nil {
			b.Fatalf("unexpected error: nil Decoder")
		}
		output := make([]byte, size)
		b.SetBytes(int64(size))
		runtime.GC()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := dec(input, output); err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
		}
	})
}

type Result struct {
	R float64 // Rate (MB/s) or ratio (rawSize/compSize)
	D float64 // Delta ratio relative to the first codec
}

// The suites below run one benchmark for every combination of file, level,
// size and codec. The values returned have the following structure:
//
//	results: [len(files)*len(levels)*len(sizes)][len(codecs)]Result
//	names:   [len(files)*len(levels)*len(sizes)]string
//
// A result is left zero if its input file could not be loaded or encoded.

// BenchmarkEncoderSuite measures the compression rate of each encoder.
func BenchmarkEncoderSuite(format Format, encs, files []string, levels, sizes []int, tick func()) ([][]Result, []string) {
	s := suite{files: files, levels: levels, sizes: sizes, tick: tick}
	return s.run(encs, func(input []byte, lvl int) func(string) Result {
		return func(enc string) Result {
			return rateOf(BenchmarkEncoder(input, Encoders[format][enc], lvl))
		}
	})
}

// BenchmarkDecoderSuite measures the decompression rate of each decoder. The
// input to every decoder is produced by the reference encoder ref.
func BenchmarkDecoderSuite(format Format, decs, files []string, levels, sizes []int, ref Encoder, tick func()) ([][]Result, []string) {
	s := suite{files: files, levels: levels, sizes: sizes, tick: tick}
	return s.run(decs, func(input []byte, lvl int) func(string) Result {
		output, err := Encode(input, ref, lvl)
		return func(dec string) Result {
			if err != nil {
				return Result{}
			}
			return rateOf(BenchmarkDecoder(output, len(input), Decoders[format][dec]))
		}
	})
}

// BenchmarkRatioSuite measures the compression ratio of each encoder.
func BenchmarkRatioSuite(format Format, encs, files []string, levels, sizes []int, tick func()) ([][]Result, []string) {
	s := suite{files: files, levels: levels, sizes: sizes, tick: tick}
	return s.run(encs, func(input []byte, lvl int) func(string) Result {
		return func(enc string) Result {
			output, err := Encode(input, Encoders[format][enc], lvl)
			if err != nil || len(output) == 0 {
				return Result{}
			}
			return Result{R: float64(len(input)) / float64(len(output))}
		}
	})
}

func rateOf(result testing.BenchmarkResult) Result {
	if result.N == 0 || result.T <= 0 {
		return Result{}
	}
	us := float64(result.T.Nanoseconds()) / 1e3
	return Result{R: float64(result.Bytes) * float64(result.N) / us}
}

type suite struct {
	files         []string
	levels, sizes []int
	tick          func()
}

// run benchmarks every codec on each row. newRow is called once per row with
// that row's input and returns the benchmark for a single codec.
func (s *suite) run(codecs []string, newRow func(input []byte, lvl int) func(codec string) Result) ([][]Result, []string) {
	var results [][]Result
	var names []string
	for _, f := range s.files {
		for _, n := range s.sizes {
			input, err := testutil.LoadFile(getPath(f), n)
			for _, l := range s.levels {
				row := make([]Result, len(codecs))
				var bench func(string) Result
				if err == nil && len(input) > 0 {
					bench = newRow(input, l)
				}
				for j, c := range codecs {
					if s.tick != nil {
						s.tick()
					}
					if bench != nil {
						row[j] = bench(c)
					}
					if row[0].R != 0 {
						row[j].D = row[j].R / row[0].R
					}
				}
				results = append(results, row)
				names = append(names, getName(f, l, len(input)))
			}
		}
	}
	return results, names
}

// getPath returns the first match for file in Paths, or file itself.
func getPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	for _, p := range Paths {
		if p = filepath.Join(p, file); fileExists(p) {
			return p
		}
	}
	return file
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

var zeroExp = regexp.MustCompile(`\.0*e\+0*`)

// getName names a benchmark row as "file:level:size", writing the size as a
// power of ten or with an IEC prefix.
func getName(f string, l, n int) string {
	var sn string
	switch n {
	case 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9:
		sn = zeroExp.ReplaceAllString(fmt.Sprintf("%e", float64(n)), "e")
	default:
		sn = strings.Replace(strconv.FormatPrefix(float64(n), strconv.Base1024, 2), ".00", "", -1)
	}
	return fmt.Sprintf("%s:%d:%s", strings.TrimSuffix(filepath.Base(f), ".xz"), l, sn)
}

// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore

// Benchmark tool to compare DEFLATE decoders, and the encoders producing their
// input. Individual implementations are referred to as codecs.
//
// Example usage:
//
//	$ go run main.go \
//		-formats fl,zl                  \
//		-tests   decRate                \
//		-codecs  std,kp,ds-generic,ds-wordwise \
//		-files   words.txt.xz           \
//		-levels  1,6,9                  \
//		-sizes   1e4,64Ki,1e6
//
//	BENCHMARK: fl:decRate
//		benchmark       std MB/s  delta  kp MB/s  delta  ds-generic MB/s  delta  ...
//		words.txt:1:1e4   ...
//
// The decode rate of every codec is measured on the same input, produced by
// the first available reference encoder.
package main

import (
	"flag"
	"fmt"
	"go/build"
	"maps"
	"math"
	"os"
	"regexp"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/inflate-go/inflate/internal/tool/bench"
)

// By default, the benchmark tool will look for test data in this "package".
const testPkg = "github.com/inflate-go/inflate/testdata"

// encRefs lists the encoders to prefer, in order, for producing the input of
// the decode rate benchmark.
var encRefs = []string{"std", "kp"}

var (
	formatNames = map[string]bench.Format{
		"fl": bench.FormatFlate,
		"zl": bench.FormatZlib,
		"gz": bench.FormatGzip,
	}
	testNames = map[string]int{
		"encRate": bench.TestEncodeRate,
		"decRate": bench.TestDecodeRate,
		"ratio":   bench.TestCompressRatio,
	}
)

var sep = regexp.MustCompile("[,:]")

// lookupAll maps every name in the list s through m.
func lookupAll[T any](kind, s string, m map[string]T) []T {
	var vs []T
	for _, name := range sep.Split(s, -1) {
		v, ok := m[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "invalid %s: %q\n", kind, name)
			os.Exit(2)
		}
		vs = append(vs, v)
	}
	return vs
}

// parseNumbers parses a list of numbers that may carry SI or IEC prefixes.
func parseNumbers(kind, s string) []int {
	var vs []int
	for _, f := range sep.Split(s, -1) {
		n, err := strconv.ParsePrefix(f, strconv.AutoParse)
		if err != nil || n != math.Trunc(n) {
			fmt.Fprintf(os.Stderr, "invalid %s: %q\n", kind, f)
			os.Exit(2)
		}
		vs = append(vs, int(n))
	}
	return vs
}

// nameOf is the inverse of a lookup in m.
func nameOf[T comparable](m map[string]T, v T) string {
	for k, x := range m {
		if x == v {
			return k
		}
	}
	return "?"
}

// sortedNames returns the keys of m, ordered by value.
func sortedNames[T int | bench.Format](m map[string]T) string {
	names := slices.Collect(maps.Keys(m))
	slices.SortFunc(names, func(a, b string) int { return int(m[a]) - int(m[b]) })
	return strings.Join(names, ",")
}

func defaultPath() string {
	pkg, err := build.Import(testPkg, "", build.FindOnly)
	if err != nil {
		return "testdata"
	}
	return pkg.Dir
}

func defaultFiles() string {
	des, err := os.ReadDir(defaultPath())
	if err != nil {
		return ""
	}
	var names []string
	for _, de := range des {
		if strings.HasSuffix(de.Name(), ".xz") {
			names = append(names, de.Name())
		}
	}
	return strings.Join(names, ",")
}

// defaultCodecs lists every registered codec with "std" first, since the
// deltas are relative to the first codec.
func defaultCodecs() string {
	set := make(map[string]bool)
	for _, m := range bench.Encoders {
		for k := range m {
			set[k] = true
		}
	}
	for _, m := range bench.Decoders {
		for k := range m {
			set[k] = true
		}
	}
	names := slices.Sorted(maps.Keys(set))
	if i := slices.Index(names, "std"); i > 0 {
		names = append([]string{"std"}, slices.Delete(names, i, i+1)...)
	}
	return strings.Join(names, ",")
}

func main() {
	formats := flag.String("formats", sortedNames(formatNames), "List of formats to benchmark")
	tests := flag.String("tests", sortedNames(testNames), "List of different benchmark tests")
	codecs := flag.String("codecs", defaultCodecs(), "List of codecs to benchmark")
	paths := flag.String("paths", defaultPath(), "List of paths to search for test files")
	files := flag.String("files", defaultFiles(), "List of input files to benchmark")
	levels := flag.String("levels", "1,6,9", "List of compression levels to benchmark")
	sizes := flag.String("sizes", "1e4,1e5,1e6", "List of input sizes to benchmark")
	flag.Parse()

	r := runner{
		codecs: sep.Split(*codecs, -1),
		files:  sep.Split(*files, -1),
		levels: parseNumbers("level", *levels),
		sizes:  parseNumbers("size", *sizes),
	}
	bench.Paths = sep.Split(*paths, -1)

	ts := time.Now()
	for _, f := range lookupAll("format", *formats, formatNames) {
		for _, t := range lookupAll("test", *tests, testNames) {
			fmt.Printf("BENCHMARK: %s:%s\n", nameOf(formatNames, f), nameOf(testNames, t))
			r.run(f, t)
			fmt.Println()
		}
	}
	fmt.Printf("RUNTIME: %v\n", time.Since(ts))
}

type runner struct {
	codecs, files []string
	levels, sizes []int
}

func (r *runner) run(f bench.Format, t int) {
	var encs, decs []string
	for _, c := range r.codecs {
		if bench.Encoders[f][c] != nil {
			encs = append(encs, c)
		}
		if bench.Decoders[f][c] != nil {
			decs = append(decs, c)
		}
	}
	ref := referenceEncoder(f)
	switch {
	case t == bench.TestDecodeRate && (ref == nil || len(decs) == 0):
		fmt.Print("\tSKIP: There are no decoders available.\n")
		return
	case t != bench.TestDecodeRate && len(encs) == 0:
		fmt.Print("\tSKIP: There are no encoders available.\n")
		return
	}

	var cnt, total int
	tick := func() {
		fmt.Printf("\t[%6.2f%%] %d of %d\r", 100.0*float64(cnt)/float64(total), cnt, total)
		cnt++
	}
	n := len(r.files) * len(r.levels) * len(r.sizes)

	var results [][]bench.Result
	var names []string
	switch t {
	case bench.TestEncodeRate:
		total = n * len(encs)
		results, names = bench.BenchmarkEncoderSuite(f, encs, r.files, r.levels, r.sizes, tick)
		printResults(results, names, encs, "MB/s", "")
	case bench.TestDecodeRate:
		total = n * len(decs)
		results, names = bench.BenchmarkDecoderSuite(f, decs, r.files, r.levels, r.sizes, ref, tick)
		printResults(results, names, decs, "MB/s", "")
	case bench.TestCompressRatio:
		total = n * len(encs)
		results, names = bench.BenchmarkRatioSuite(f, encs, r.files, r.levels, r.sizes, tick)
		printResults(results, names, encs, "ratio", "x")
	}
}

func referenceEncoder(f bench.Format) bench.Encoder {
	for _, c := range encRefs {
		if enc := bench.Encoders[f][c]; enc != nil {
			return enc
		}
	}
	if names := slices.Sorted(maps.Keys(bench.Encoders[f])); len(names) > 0 {
		return bench.Encoders[f][names[0]]
	}
	return nil
}

func printResults(results [][]bench.Result, names, codecs []string, title, suffix string) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\tbenchmark\t")
	for _, c := range codecs {
		fmt.Fprintf(tw, "%s %s\tdelta\t", c, title)
	}
	fmt.Fprintln(tw)
	for j, row := range results {
		fmt.Fprintf(tw, "\t%s\t", names[j])
		for _, r := range row {
			fmt.Fprintf(tw, "%s\t%s\t", finite(r.R, "%.2f"+suffix), finite(r.D, "%.2fx"))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// finite formats v, or returns an empty cell if there is no valid result.
func finite(v float64, format string) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf(format, v)
}

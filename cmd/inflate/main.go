// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command inflate decompresses a raw DEFLATE, zlib, or gzip file held
// entirely in memory.
//
// Example usage:
//
//	$ inflate -format auto -o words.txt words.txt.gz
//	$ inflate -format raw -size 64Ki -strategy generic data.bin > data.out
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/inflate-go/inflate"
	"github.com/inflate-go/inflate/flate"
	"github.com/inflate-go/inflate/gzip"
	"github.com/sirupsen/logrus"
)

const defaultLimit = "1Gi"

type config struct {
	format   inflate.Format
	size     int
	limit    int
	output   string
	strategy string
	input    string
	debug    bool
}

func parseFlags(args []string) (*config, error) {
	fs := flag.NewFlagSet("inflate", flag.ContinueOnError)
	format := fs.String("format", "auto", "Input format: raw, zlib, gzip, or auto")
	size := fs.String("size", "", "Expected decompressed size, used as the initial buffer size")
	limit := fs.String("limit", defaultLimit, "Maximum decompressed size")
	output := fs.String("o", "-", "Output file")
	strategy := fs.String("strategy", "", "Decoding strategy, one of the names listed by -v")
	debug := fs.Bool("v", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, errors.New("expected exactly one input file")
	}

	cfg := &config{output: *output, strategy: *strategy, input: fs.Arg(0), debug: *debug}
	var err error
	if cfg.format, err = inflate.ParseFormat(*format); err != nil {
		return nil, err
	}
	if *size != "" {
		if cfg.size, err = parseSize(*size); err != nil {
			return nil, fmt.Errorf("invalid -size: %v", err)
		}
	}
	if cfg.limit, err = parseSize(*limit); err != nil {
		return nil, fmt.Errorf("invalid -limit: %v", err)
	}
	return cfg, nil
}

func parseSize(s string) (int, error) {
	f, err := strconv.ParsePrefix(s, strconv.AutoParse)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not a byte count", s)
	}
	return int(f), nil
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func writeOutput(name string, b []byte) error {
	if name == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(name, b, 0644)
}

// run decompresses the input named by cfg and returns the decompressed data.
func run(cfg *config, in []byte) ([]byte, error) {
	format := cfg.format
	if format == inflate.FormatAuto {
		format = inflate.DetectFormat(in)
		logrus.Debugf("detected format %v", format)
	}
	d := inflate.NewDecompressor(format)
	if cfg.strategy != "" {
		sd, ok := d.(interface{ SetStrategy(string) error })
		if !ok {
			return nil, fmt.Errorf("format %v does not support strategies", format)
		}
		if err := sd.SetStrategy(cfg.strategy); err != nil {
			return nil, err
		}
	}

	sizeHint := cfg.size
	if sizeHint == 0 && format == inflate.FormatGzip {
		if n, err := gzip.Size(in); err == nil && n > 0 {
			sizeHint = n
		}
	}

	strategy := cfg.strategy
	if strategy == "" {
		strategy = flate.DefaultStrategy()
	}
	log := logrus.WithFields(logrus.Fields{
		"file":     cfg.input,
		"format":   format,
		"strategy": strategy,
	})
	log.WithField("size_hint", sizeHint).Debug("decompressing")

	out, nIn, err := inflate.DecompressAll(d, in, sizeHint, cfg.limit)
	if err != nil {
		return nil, err
	}
	if nIn < len(in) {
		log.Warnf("ignoring %d trailing bytes", len(in)-nIn)
	}
	log.WithFields(logrus.Fields{"in": nIn, "out": len(out)}).Info("decompressed")
	return out, nil
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "ERROR: ", err)
		os.Exit(2)
	}
	if cfg.debug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debugf("available strategies: %v", flate.Strategies())
	}

	in, err := readInput(cfg.input)
	if err != nil {
		logrus.Errorf("unable to read input: %s", err)
		os.Exit(1)
	}
	out, err := run(cfg, in)
	if err != nil {
		logrus.WithField("file", cfg.input).Errorf("unable to decompress: %s", err)
		os.Exit(1)
	}
	if err := writeOutput(cfg.output, out); err != nil {
		logrus.Errorf("unable to write output: %s", err)
		os.Exit(1)
	}
}

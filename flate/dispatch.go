// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package flate

import (
	"math/bits"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// StrategyEnv is the environment variable that, if set to the name of a
// strategy, overrides the strategy chosen for the running machine.
const StrategyEnv = "INFLATE_STRATEGY"

// A strategy is one implementation of the block decoder. All strategies
// produce identical results, including for invalid input.
type strategy struct {
	name     string
	wordwise bool // Refill a word at a time and use readBlockFast
}

var (
	genericStrategy  = &strategy{name: "generic"}
	wordwiseStrategy = &strategy{name: "wordwise", wordwise: true}

	allStrategies = []*strategy{genericStrategy, wordwiseStrategy}
)

// defaultStrategy caches the result of probeStrategy. Racing stores write the
// same value.
var defaultStrategy atomic.Pointer[strategy]

func selectedStrategy() *strategy {
	if s := defaultStrategy.Load(); s != nil {
		return s
	}
	s := probeStrategy()
	defaultStrategy.Store(s)
	return s
}

func probeStrategy() *strategy {
	if s := lookupStrategy(os.Getenv(StrategyEnv)); s != nil {
		return s
	}
	// Loading a little-endian word is a single instruction only on 64-bit
	// little-endian machines.
	if cpu.IsBigEndian || bits.UintSize < 64 {
		return genericStrategy
	}
	return wordwiseStrategy
}

func lookupStrategy(name string) *strategy {
	for _, s := range allStrategies {
		if strings.EqualFold(s.name, name) {
			return s
		}
	}
	return nil
}

// Strategies returns the names of all available decoding strategies.
func Strategies() []string {
	var names []string
	for _, s := range allStrategies {
		names = append(names, s.name)
	}
	return names
}

// DefaultStrategy returns the name of the strategy used by decompressors that
// have not been assigned one with SetStrategy.
func DefaultStrategy() string {
	return selectedStrategy().name
}

// SetStrategy fixes the decoding strategy used by d. An empty name restores
// the default strategy.
func (d *Decompressor) SetStrategy(name string) error {
	if name == "" {
		d.strategy = nil
		return nil
	}
	s := lookupStrategy(name)
	if s == nil {
		return errUnknownStrategy
	}
	d.strategy = s
	return nil
}

// Strategy returns the name of the strategy used by d.
func (d *Decompressor) Strategy() string {
	if d.strategy == nil {
		return DefaultStrategy()
	}
	return d.strategy.name
}

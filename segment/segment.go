// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package segment names the one-million-block ranges that benchmark
// inputs are split into.
//
// Segment k covers blocks [k*1M, (k+1)*1M) and is labeled "k-(k+1)M",
// so the default nine segments are "0-1M" through "8-9M".
package segment

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the number of blocks in one segment.
const Size = 1_000_000

// Count is the number of segments in a default run.
const Count = 9

// A Segment is the index of a one-million-block range.
type Segment int

// All returns the default segments, 0-1M through 8-9M, in order.
func All() []Segment {
	segs := make([]Segment, Count)
	for i := range segs {
		segs[i] = Segment(i)
	}
	return segs
}

// Label returns the human-readable range label, e.g. "0-1M".
func (s Segment) Label() string {
	return fmt.Sprintf("%d-%dM", int(s), int(s)+1)
}

// String is Label.
func (s Segment) String() string {
	return s.Label()
}

// TSVLabel returns the label with its hyphen doubled, e.g. "0--1M".
// This is the row label of the duration table.
func (s Segment) TSVLabel() string {
	return strings.Replace(s.Label(), "-", "--", -1)
}

// CSVName returns the name of the raw instruction CSV for s, e.g. "0M.csv".
func (s Segment) CSVName() string {
	return fmt.Sprintf("%dM.csv", int(s))
}

// RefinedName returns the name of the refined instruction CSV for s,
// e.g. "refined_0M.csv".
func (s Segment) RefinedName() string {
	return "refined_" + s.CSVName()
}

// FirstBlock returns the first block number covered by s.
func (s Segment) FirstBlock() int64 {
	return int64(s) * Size
}

// Contains reports whether block falls in s.
func (s Segment) Contains(block int64) bool {
	first := s.FirstBlock()
	return first <= block && block < first+Size
}

// Parse parses a label of the form "k-(k+1)M".
func Parse(label string) (Segment, error) {
	rest, ok := strings.CutSuffix(label, "M")
	if !ok {
		return 0, fmt.Errorf("segment %q: missing M suffix", label)
	}
	lo, hi, ok := strings.Cut(rest, "-")
	if !ok {
		return 0, fmt.Errorf("segment %q: missing range separator", label)
	}
	l, err := strconv.Atoi(lo)
	if err != nil || l < 0 {
		return 0, fmt.Errorf("segment %q: bad lower bound", label)
	}
	h, err := strconv.Atoi(hi)
	if err != nil || h != l+1 {
		return 0, fmt.Errorf("segment %q: upper bound must be %d", label, l+1)
	}
	return Segment(l), nil
}

// Labels returns the labels of segs in order.
func Labels(segs []Segment) []string {
	labels := make([]string, len(segs))
	for i, s := range segs {
		labels[i] = s.Label()
	}
	return labels
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package substate extracts substate transition timings from the logs
// of "evm t8n-substate" benchmark runs and tabulates them by block
// segment and worker count.
//
// Each run writes a log named evm-t8n-substate-w<workers>-<segment>.log.
// The elapsed time is the remainder of the first line that starts with
// Marker, e.g.
//
//	stage1-substate: TransitionSubstate done in 00h12m34.567s
package substate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/evm-substate/benchlog/elapsed"
	"github.com/evm-substate/benchlog/internal/floatfmt"
	"github.com/evm-substate/benchlog/logscan"
	"github.com/evm-substate/benchlog/segment"
)

// Marker is the prefix of the log line that reports the elapsed time.
const Marker = "stage1-substate: TransitionSubstate done in "

// NameFormat is the log file name template. Its arguments are the
// worker count and the segment label.
const NameFormat = "evm-t8n-substate-w%d-%s.log"

// DefaultWorkers are the worker counts of a standard benchmark sweep.
var DefaultWorkers = []int{1, 2, 4, 8, 12, 16, 24, 32, 48, 64}

// Config says which logs to read and how to find the timing in them.
type Config struct {
	// Dir is the directory holding the logs. Empty means ".".
	Dir string

	// Workers are the table columns, in order.
	Workers []int

	// Segments are the table rows, in order.
	Segments []segment.Segment

	// Marker is the prefix of the timing line.
	Marker string

	// NameFormat is the fmt template for log names.
	NameFormat string
}

// DefaultConfig returns the configuration of the standard sweep.
func DefaultConfig() Config {
	return Config{
		Dir:        ".",
		Workers:    append([]int(nil), DefaultWorkers...),
		Segments:   segment.All(),
		Marker:     Marker,
		NameFormat: NameFormat,
	}
}

// Path returns the log path for one run.
func (c Config) Path(seg segment.Segment, workers int) string {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf(c.NameFormat, workers, seg.Label()))
}

// A Record is the timing of one run.
type Record struct {
	Segment segment.Segment
	Workers int
	Path    string

	// Found is false if the log has no timing line or does not exist.
	Found   bool
	Elapsed time.Duration

	// Missing explains why Found is false.
	Missing string
}

// A Table holds one Record per (segment, workers) pair.
type Table struct {
	Workers  []int
	Segments []segment.Segment

	// Records is indexed by segment row, then by worker column.
	Records [][]Record
}

// Extract reads every log named by c and returns the timing table.
//
// A log that does not exist or has no timing line produces a Record
// with Found unset. Any other I/O error, or a timing line that does
// not parse, is returned.
func Extract(c Config) (*Table, error) {
	if c.Marker == "" {
		c.Marker = Marker
	}
	if c.NameFormat == "" {
		c.NameFormat = NameFormat
	}
	t := &Table{
		Workers:  c.Workers,
		Segments: c.Segments,
		Records:  make([][]Record, len(c.Segments)),
	}
	for i, seg := range c.Segments {
		row := make([]Record, len(c.Workers))
		for j, w := range c.Workers {
			rec, err := extractOne(c, seg, w)
			if err != nil {
				return nil, err
			}
			row[j] = rec
		}
		t.Records[i] = row
	}
	return t, nil
}

func extractOne(c Config, seg segment.Segment, workers int) (Record, error) {
	rec := Record{Segment: seg, Workers: workers, Path: c.Path(seg, workers)}
	err := logscan.ReadFile(rec.Path, func(r *logscan.Reader) error {
		rest, ok := r.FindPrefix(c.Marker)
		if !ok {
			rec.Missing = "no timing line"
			return nil
		}
		d, err := elapsed.Parse(rest)
		if err != nil {
			return r.NewSyntaxError("bad elapsed time %q: %v", rest, err)
		}
		rec.Found, rec.Elapsed = true, d
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		rec.Missing = "log not found"
		return rec, nil
	}
	return rec, err
}

// Missing returns the records without a timing, in table order.
func (t *Table) Missing() []Record {
	var out []Record
	for _, row := range t.Records {
		for _, rec := range row {
			if !rec.Found {
				out = append(out, rec)
			}
		}
	}
	return out
}

// WriteTSV writes t as tab-separated text: a header row "block"
// followed by the worker counts, then one row per segment holding the
// elapsed seconds of each run. Every cell, including the last, is
// followed by a tab.
//
// If placeholder is empty, a run without a timing contributes no cell
// at all, so the cells after it shift left and the row is shorter
// than the header. Otherwise placeholder is written in its place.
func (t *Table) WriteTSV(w io.Writer, placeholder string) error {
	bw := &errWriter{w: w}
	bw.printf("block\t")
	for _, workers := range t.Workers {
		bw.printf("%d\t", workers)
	}
	bw.printf("\n")
	for i, seg := range t.Segments {
		bw.printf("%s\t", seg.TSVLabel())
		for _, rec := range t.Records[i] {
			switch {
			case rec.Found:
				bw.printf("%s\t", floatfmt.Repr(rec.Elapsed.Seconds()))
			case placeholder != "":
				bw.printf("%s\t", placeholder)
			}
		}
		bw.printf("\n")
	}
	return bw.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

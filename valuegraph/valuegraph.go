// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package valuegraph collects the value-graph statistics that the
// replay tool prints at the end of each evm-value-graph-<N>k.log.
//
// The statistics are a CSV header line followed by one data line:
//
//	first,last,total,live
//	5,10,20,3
package valuegraph

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/evm-substate/benchlog/logscan"
)

// Header is the line that precedes each data line.
const Header = "first,last,total,live"

var namePattern = regexp.MustCompile(`^evm-value-graph-(\d+k)\.log$`)

// A Record is one data line of a value-graph log.
type Record struct {
	// Label is the magnitude suffix of the log name, e.g. "37k".
	Label string

	First, Last, Total, Live int64

	// Line is the data line as it appeared in the log, with its
	// line terminator.
	Line string
}

// Files returns the names of the value-graph logs in dir, sorted.
func Files(dir string) ([]string, error) {
	return logscan.Glob(dir, namePattern)
}

// Label returns the magnitude label encoded in a log name.
func Label(name string) string {
	m := namePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return ""
	}
	return m[1]
}

// Extract writes Header followed by the data line of every header
// occurrence in every value-graph log in dir. Logs are visited in
// sorted order and data lines are copied verbatim.
func Extract(w io.Writer, dir string) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return err
	}
	return scan(dir, func(_ string, r *logscan.Reader) error {
		_, err := io.WriteString(w, r.Raw())
		return err
	})
}

// Records parses the data line of every header occurrence in every
// value-graph log in dir.
func Records(dir string) ([]Record, error) {
	var recs []Record
	err := scan(dir, func(name string, r *logscan.Reader) error {
		rec, err := parseRecord(r)
		if err != nil {
			return err
		}
		rec.Label = Label(name)
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

// scan calls fn with the reader positioned on each line that follows
// a header line.
func scan(dir string, fn func(name string, r *logscan.Reader) error) error {
	names, err := Files(dir)
	if err != nil {
		return err
	}
	for _, name := range names {
		err := logscan.ReadFile(filepath.Join(dir, name), func(r *logscan.Reader) error {
			// A data line may itself start with Header, in which
			// case the line after it is data too.
			afterHeader := false
			for r.Scan() {
				if afterHeader {
					if err := fn(name, r); err != nil {
						return err
					}
				}
				afterHeader = r.HasPrefix(Header)
			}
			if afterHeader && r.Err() == nil {
				return r.NewSyntaxError("header without data line")
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func parseRecord(r *logscan.Reader) (Record, error) {
	fields := strings.Split(r.Text(), ",")
	if len(fields) != 4 {
		return Record{}, r.NewSyntaxError("want 4 fields, got %d", len(fields))
	}
	var vals [4]int64
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return Record{}, r.NewSyntaxError("field %d: %v", i+1, err)
		}
		vals[i] = v
	}
	return Record{
		First: vals[0],
		Last:  vals[1],
		Total: vals[2],
		Live:  vals[3],
		Line:  r.Raw(),
	}, nil
}

func (r Record) String() string {
	return fmt.Sprintf("%s: first=%d last=%d total=%d live=%d", r.Label, r.First, r.Last, r.Total, r.Live)
}

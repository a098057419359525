// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instr refines per-transaction instruction and gas liveness
// measurements and summarizes them by block segment.
//
// The raw input for segment k is the CSV file "kM.csv" whose first six
// columns are block, txIndex, totalInst, liveInst, totalGas and
// liveGas. Refining sorts the rows by (block, txIndex) and adds the
// dead-instruction and wasted-gas counts and ratios.
package instr

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/multierr"

	"github.com/evm-substate/benchlog/internal/floatfmt"
	"github.com/evm-substate/benchlog/logscan"
	"github.com/evm-substate/benchlog/segment"
)

// Columns is the header of a refined CSV file.
var Columns = []string{
	"block", "txIndex",
	"totalInst", "liveInst", "totalGas", "liveGas",
	"countInst", "ratioInst", "countGas", "ratioGas",
}

// rawColumns is the number of leading input columns that are read.
const rawColumns = 6

// A Row is the measurement of one transaction.
type Row struct {
	Block   int64
	TxIndex int64

	TotalInst, LiveInst int64
	TotalGas, LiveGas   int64

	// Derived by Refine.
	CountInst int64   // TotalInst - LiveInst
	RatioInst float64 // CountInst / TotalInst, or 0 if TotalInst is 0
	CountGas  int64   // TotalGas - LiveGas
	RatioGas  float64 // CountGas / TotalGas, or 0 if TotalGas is 0
}

// derive fills in the derived fields of r.
func (r *Row) derive() {
	r.CountInst = r.TotalInst - r.LiveInst
	r.RatioInst = ratio(r.CountInst, r.TotalInst)
	r.CountGas = r.TotalGas - r.LiveGas
	r.RatioGas = ratio(r.CountGas, r.TotalGas)
}

func ratio(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// ReadCSV reads raw rows from r. The first record is a header and is
// skipped. Columns past the sixth are ignored. name is used in error
// messages.
func ReadCSV(r io.Reader, name string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var rows []Row
	header := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &logscan.SyntaxError{FileName: name, Line: perr.Line, Msg: perr.Err.Error()}
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)
		if header {
			header = false
			if len(rec) < rawColumns {
				return nil, &logscan.SyntaxError{FileName: name, Line: line, Msg: fmt.Sprintf("header has %d columns, want at least %d", len(rec), rawColumns)}
			}
			continue
		}
		if len(rec) < rawColumns {
			return nil, &logscan.SyntaxError{FileName: name, Line: line, Msg: fmt.Sprintf("row has %d columns, want at least %d", len(rec), rawColumns)}
		}
		var vals [rawColumns]int64
		for i := range vals {
			v, err := strconv.ParseInt(rec[i], 10, 64)
			if err != nil {
				return nil, &logscan.SyntaxError{FileName: name, Line: line, Msg: fmt.Sprintf("column %s: %v", Columns[i], err)}
			}
			vals[i] = v
		}
		rows = append(rows, Row{
			Block:     vals[0],
			TxIndex:   vals[1],
			TotalInst: vals[2],
			LiveInst:  vals[3],
			TotalGas:  vals[4],
			LiveGas:   vals[5],
		})
	}
	if header {
		return nil, &logscan.SyntaxError{FileName: name, Msg: "missing header"}
	}
	return rows, nil
}

// Refine sorts rows by block and then transaction index, keeping the
// input order of equal keys, and computes the derived fields.
func Refine(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Block != rows[j].Block {
			return rows[i].Block < rows[j].Block
		}
		return rows[i].TxIndex < rows[j].TxIndex
	})
	for i := range rows {
		rows[i].derive()
	}
}

// WriteCSV writes rows, which should be refined, as a CSV file with
// the header Columns.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	rec := make([]string, len(Columns))
	for _, r := range rows {
		rec[0] = strconv.FormatInt(r.Block, 10)
		rec[1] = strconv.FormatInt(r.TxIndex, 10)
		rec[2] = strconv.FormatInt(r.TotalInst, 10)
		rec[3] = strconv.FormatInt(r.LiveInst, 10)
		rec[4] = strconv.FormatInt(r.TotalGas, 10)
		rec[5] = strconv.FormatInt(r.LiveGas, 10)
		rec[6] = strconv.FormatInt(r.CountInst, 10)
		rec[7] = floatfmt.Repr(r.RatioInst)
		rec[8] = strconv.FormatInt(r.CountGas, 10)
		rec[9] = floatfmt.Repr(r.RatioGas)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RefineFile reads seg's raw CSV from inDir, refines it and writes
// seg's refined CSV to outDir. It returns the refined rows.
func RefineFile(inDir, outDir string, seg segment.Segment) ([]Row, error) {
	rows, err := readFile(filepath.Join(inDir, seg.CSVName()))
	if err != nil {
		return nil, err
	}
	Refine(rows)
	if err := writeFile(filepath.Join(outDir, seg.RefinedName()), rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func readFile(path string) (rows []Row, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return ReadCSV(f, path)
}

func writeFile(path string, rows []Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if err := WriteCSV(f, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

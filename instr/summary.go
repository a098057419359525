// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aclements/go-moremath/stats"

	"github.com/evm-substate/benchlog/internal/floatfmt"
	"github.com/evm-substate/benchlog/segment"
)

// A Summary aggregates the refined rows of one segment.
type Summary struct {
	Segment segment.Segment
	Rows    int

	// Outside counts the rows whose block is not in Segment.
	Outside int

	TotalInst, LiveInst int64
	TotalGas, LiveGas   int64

	// DeadInstPct is 100 * (TotalInst - LiveInst) / TotalInst,
	// or 0 if TotalInst is 0.
	DeadInstPct float64

	// WastedGasPerTx is (TotalGas - LiveGas) / Rows.
	WastedGasPerTx float64

	// GasPerTx is TotalGas / Rows.
	GasPerTx float64

	// Quartiles and bounds of the per-row dead instruction ratio,
	// in percent. All zero if Rows is 0.
	RatioMin, RatioQ1, RatioMedian, RatioQ3, RatioMax float64

	// RatioPct holds each row's RatioInst in percent, in row order.
	RatioPct []float64
}

// Summarize aggregates the refined rows of seg.
func Summarize(seg segment.Segment, rows []Row) Summary {
	s := Summary{Segment: seg, Rows: len(rows)}
	s.RatioPct = make([]float64, len(rows))
	for i, r := range rows {
		s.TotalInst += r.TotalInst
		s.LiveInst += r.LiveInst
		s.TotalGas += r.TotalGas
		s.LiveGas += r.LiveGas
		s.RatioPct[i] = r.RatioInst * 100
		if !seg.Contains(r.Block) {
			s.Outside++
		}
	}
	if s.TotalInst != 0 {
		s.DeadInstPct = float64(s.TotalInst-s.LiveInst) / float64(s.TotalInst) * 100
	}
	if s.Rows == 0 {
		return s
	}
	s.WastedGasPerTx = float64(s.TotalGas-s.LiveGas) / float64(s.Rows)
	s.GasPerTx = float64(s.TotalGas) / float64(s.Rows)

	sample := stats.Sample{Xs: s.RatioPct}
	s.RatioMin, s.RatioMax = sample.Bounds()
	s.RatioQ1 = sample.Quantile(0.25)
	s.RatioMedian = sample.Quantile(0.5)
	s.RatioQ3 = sample.Quantile(0.75)
	return s
}

// SummaryColumns is the header written by WriteSummaryCSV.
var SummaryColumns = []string{
	"segment", "rows",
	"totalInst", "liveInst", "totalGas", "liveGas",
	"deadInstPct", "wastedGasPerTx", "gasPerTx",
	"ratioMin", "ratioQ1", "ratioMedian", "ratioQ3", "ratioMax",
}

// WriteSummaryCSV writes one CSV row per summary.
func WriteSummaryCSV(w io.Writer, sums []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryColumns); err != nil {
		return err
	}
	for _, s := range sums {
		err := cw.Write([]string{
			s.Segment.Label(),
			strconv.Itoa(s.Rows),
			strconv.FormatInt(s.TotalInst, 10),
			strconv.FormatInt(s.LiveInst, 10),
			strconv.FormatInt(s.TotalGas, 10),
			strconv.FormatInt(s.LiveGas, 10),
			floatfmt.Repr(s.DeadInstPct),
			floatfmt.Repr(s.WastedGasPerTx),
			floatfmt.Repr(s.GasPerTx),
			floatfmt.Repr(s.RatioMin),
			floatfmt.Repr(s.RatioQ1),
			floatfmt.Repr(s.RatioMedian),
			floatfmt.Repr(s.RatioQ3),
			floatfmt.Repr(s.RatioMax),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

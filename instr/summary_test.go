// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evm-substate/benchlog/segment"
)

func refined(rows ...Row) []Row {
	Refine(rows)
	return rows
}

func TestSummarize(t *testing.T) {
	rows := refined(
		Row{Block: 1, TotalInst: 100, LiveInst: 75, TotalGas: 1000, LiveGas: 400},
		Row{Block: 2, TotalInst: 300, LiveInst: 125, TotalGas: 3000, LiveGas: 3000},
		Row{Block: 3, TotalInst: 0, LiveInst: 0, TotalGas: 0, LiveGas: 0},
		Row{Block: 4, TotalInst: 100, LiveInst: 0, TotalGas: 100, LiveGas: 0},
	)
	s := Summarize(segment.Segment(2), rows)

	assert.Equal(t, 4, s.Rows)
	// Blocks 1-4 belong to 0-1M, not 2-3M.
	assert.Equal(t, 4, s.Outside)
	assert.Equal(t, int64(500), s.TotalInst)
	assert.Equal(t, int64(200), s.LiveInst)
	// 100 * (500 - 200) / 500
	assert.InDelta(t, 60.0, s.DeadInstPct, 1e-9)
	// (4100 - 3400) / 4
	assert.InDelta(t, 175.0, s.WastedGasPerTx, 1e-9)
	assert.InDelta(t, 1025.0, s.GasPerTx, 1e-9)

	require.Len(t, s.RatioPct, 4)
	assert.InDelta(t, 25.0, s.RatioPct[0], 1e-9)
	assert.Equal(t, 0.0, s.RatioPct[2])
	assert.Equal(t, 0.0, s.RatioMin)
	assert.Equal(t, 100.0, s.RatioMax)
	assert.True(t, s.RatioQ1 <= s.RatioMedian && s.RatioMedian <= s.RatioQ3)
	// Midway between 25 and 100 * 175 / 300.
	assert.InDelta(t, 125.0/3, s.RatioMedian, 1e-9)
}

func TestSummarizeOutside(t *testing.T) {
	seg := segment.Segment(3)
	rows := refined(
		Row{Block: seg.FirstBlock() - 1},
		Row{Block: seg.FirstBlock()},
		Row{Block: seg.FirstBlock() + segment.Size - 1},
		Row{Block: seg.FirstBlock() + segment.Size},
	)
	assert.Equal(t, 2, Summarize(seg, rows).Outside)

	for _, s := range testSummaries() {
		assert.Zero(t, s.Outside, s.Segment)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(segment.Segment(0), nil)
	assert.Equal(t, 0, s.Rows)
	assert.Equal(t, 0.0, s.DeadInstPct)
	assert.Equal(t, 0.0, s.WastedGasPerTx)
	assert.Equal(t, 0.0, s.GasPerTx)
	assert.Equal(t, 0.0, s.RatioMedian)
}

func testSummaries() []Summary {
	var sums []Summary
	for _, seg := range segment.All() {
		n := int64(seg) + 1
		sums = append(sums, Summarize(seg, refined(
			Row{Block: seg.FirstBlock(), TotalInst: 10 * n, LiveInst: n, TotalGas: 1000 * n, LiveGas: 10 * n},
			Row{Block: seg.FirstBlock() + 1, TotalInst: 20, LiveInst: 20, TotalGas: 500, LiveGas: 500},
			Row{Block: seg.FirstBlock() + 2, TotalInst: 40, LiveInst: 10, TotalGas: 900, LiveGas: 100},
		)))
	}
	return sums
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, testSummaries()[:1]))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(SummaryColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0-1M,3,70,31,2400,610,"), lines[1])
}

func TestWriteCharts(t *testing.T) {
	dir := t.TempDir()
	sums := testSummaries()
	// A segment without rows gets no box.
	sums = append(sums, Summarize(segment.Segment(9), nil))
	var names []string
	require.NoError(t, WriteCharts(dir, sums, func(name string) { names = append(names, name) }))
	assert.Equal(t, []string{DeadInstChartName, WastedGasChartName, BoxPlotName}, names)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "%s is not a PNG", name)
	}
}

func TestChartTicksOnAxis(t *testing.T) {
	sums := testSummaries()
	last := len(sums) - 1
	sums[last] = Summarize(sums[last].Segment, nil)
	for _, c := range Charts {
		pl, err := c.Build(sums)
		require.NoError(t, err)
		var labels []string
		for _, tick := range pl.X.Tick.Marker.Ticks(pl.X.Min, pl.X.Max) {
			if tick.Label == "" {
				continue
			}
			labels = append(labels, tick.Label)
			assert.True(t, pl.X.Min <= tick.Value && tick.Value <= pl.X.Max,
				"%s: tick %q at %v outside [%v, %v]", c.Name, tick.Label, tick.Value, pl.X.Min, pl.X.Max)
		}
		assert.Equal(t, segment.Labels(segment.All()), labels, c.Name)
	}
}

func TestRatioBoxPlotRange(t *testing.T) {
	pl, err := RatioBoxPlot(testSummaries())
	require.NoError(t, err)
	assert.Equal(t, -0.2, pl.Y.Min)
	assert.Equal(t, 100.2, pl.Y.Max)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, testSummaries()[8:]))
	out := buf.String()
	assert.Contains(t, out, "<td>8-9M<td>3<td>")
	assert.Contains(t, out, "<td>3,466.")
}

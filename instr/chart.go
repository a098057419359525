// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/evm-substate/benchlog/segment"
)

// Chart file names written by WriteCharts.
const (
	DeadInstChartName  = "avg_ratio.png"
	WastedGasChartName = "wasted_gas.png"
	BoxPlotName        = "boxplot.png"
)

const (
	chartDPI    = 300
	chartWidth  = 6.4 * vg.Inch
	chartHeight = 4.8 * vg.Inch
)

// barColor is the first color of the ggplot palette.
var barColor = color.NRGBA{0xE2, 0x4A, 0x33, 0xFF}

// A Chart is one of the figures drawn from the segment summaries.
type Chart struct {
	Name  string
	Build func([]Summary) (*plot.Plot, error)
}

// Charts lists the figures written by WriteCharts, in order.
var Charts = []Chart{
	{DeadInstChartName, DeadInstChart},
	{WastedGasChartName, WastedGasChart},
	{BoxPlotName, RatioBoxPlot},
}

// WriteCharts renders every chart of sums into dir. If progress is
// non-nil, it is called with each file name before rendering.
func WriteCharts(dir string, sums []Summary, progress func(name string)) error {
	for _, c := range Charts {
		if progress != nil {
			progress(c.Name)
		}
		pl, err := c.Build(sums)
		if err != nil {
			return err
		}
		if err := SavePNG(pl, filepath.Join(dir, c.Name)); err != nil {
			return err
		}
	}
	return nil
}

// DeadInstChart returns a bar chart of each segment's DeadInstPct.
func DeadInstChart(sums []Summary) (*plot.Plot, error) {
	vals := make(plotter.Values, len(sums))
	for i, s := range sums {
		vals[i] = s.DeadInstPct
	}
	return barChart(sums, vals, "Percentage (%)")
}

// WastedGasChart returns a bar chart of each segment's WastedGasPerTx.
func WastedGasChart(sums []Summary) (*plot.Plot, error) {
	vals := make(plotter.Values, len(sums))
	for i, s := range sums {
		vals[i] = s.WastedGasPerTx
	}
	return barChart(sums, vals, "Gas (k)")
}

func barChart(sums []Summary, vals plotter.Values, yLabel string) (*plot.Plot, error) {
	pl := newPlot(sums)
	pl.Y.Label.Text = yLabel

	bar, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bar.Color = barColor
	bar.LineStyle.Width = vg.Length(0)
	pl.Add(bar)

	if pl.Y.Min > 0 {
		pl.Y.Min = 0
	}
	return pl, nil
}

// RatioBoxPlot returns one box per segment of the per-row dead
// instruction ratio, in percent. Outliers are not drawn and the Y
// axis is fixed to [-0.2, 100.2].
func RatioBoxPlot(sums []Summary) (*plot.Plot, error) {
	pl := newPlot(sums)
	pl.Y.Label.Text = "Percentage (%)"

	w := vg.Points(20)
	for i, s := range sums {
		if len(s.RatioPct) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(w, float64(i), plotter.Values(s.RatioPct))
		if err != nil {
			return nil, fmt.Errorf("box plot %s: %w", s.Segment, err)
		}
		b.Outside = nil
		b.BoxStyle.Color = color.Black
		pl.Add(b)
	}

	pl.Y.Min, pl.Y.Max = -0.2, 100.2
	return pl, nil
}

// newPlot returns a plot with one nominal X position per segment.
func newPlot(sums []Summary) *plot.Plot {
	pl := plot.New()

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	segs := make([]segment.Segment, len(sums))
	for i, s := range sums {
		segs[i] = s.Segment
	}
	pl.NominalX(segment.Labels(segs)...)
	// Segments without data still need their tick on the axis.
	pl.X.Min, pl.X.Max = -0.5, float64(len(sums))-0.5
	pl.X.Label.Text = "Block"
	pl.X.Tick.Label.Rotation = math.Pi / 9
	pl.X.Tick.Label.XAlign = draw.XRight
	pl.X.Tick.Label.YAlign = draw.YTop
	return pl
}

// SavePNG renders pl as a PNG file at path.
func SavePNG(pl *plot.Plot, path string) (err error) {
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(chartWidth, chartHeight),
		vgimg.UseDPI(chartDPI),
		vgimg.UseBackgroundColor(color.White),
	)}
	pl.Draw(draw.New(can))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if _, err := can.WriteTo(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

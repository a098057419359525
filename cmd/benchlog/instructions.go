// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/evm-substate/benchlog/instr"
	"github.com/evm-substate/benchlog/storage/db"
)

type instructionsFlags struct {
	out      string
	noCharts bool
	summary  string
	html     string
	dbDriver string
	dbDSN    string
}

func (a *app) newInstructionsCommand() *cobra.Command {
	var f instructionsFlags
	cmd := &cobra.Command{
		Use:   "instructions",
		Short: "Refine per-transaction instruction counts and chart them",
		Long: `Instructions reads <N>M.csv for every configured segment, sorts the
rows by block and transaction index, adds the dead instruction and
wasted gas columns, and writes refined_<N>M.csv.

It then draws avg_ratio.png, wasted_gas.png and boxplot.png from the
refined rows. The summary table can also be written as CSV or HTML,
and the refined rows stored in a SQL database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyInstructionsFlags(cmd, &f); err != nil {
				return err
			}
			return a.instructions(cmd.Context())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.out, "out", "", "write refined files and charts to `directory` (default --dir)")
	fl.BoolVar(&f.noCharts, "no-charts", false, "do not draw charts")
	fl.StringVar(&f.summary, "summary", "", "write the segment summary as CSV to `file`")
	fl.StringVar(&f.html, "html", "", "write the segment summary as HTML to `file`")
	fl.StringVar(&f.dbDriver, "db-driver", "", "store refined rows using SQL `driver` (sqlite3 or mysql)")
	fl.StringVar(&f.dbDSN, "db-dsn", "", "SQL data source `name` for --db-driver")
	return cmd
}

func (a *app) applyInstructionsFlags(cmd *cobra.Command, f *instructionsFlags) error {
	ic := &a.cfg.Instructions
	fl := cmd.Flags()
	if fl.Changed("out") {
		ic.OutDir = f.out
	}
	if fl.Changed("no-charts") {
		ic.Charts = !f.noCharts
	}
	if fl.Changed("summary") {
		ic.Summary = f.summary
	}
	if fl.Changed("html") {
		ic.HTML = f.html
	}
	if fl.Changed("db-driver") {
		ic.DBDriver = f.dbDriver
	}
	if fl.Changed("db-dsn") {
		ic.DBDSN = f.dbDSN
	}
	return a.cfg.Validate()
}

func (a *app) instructions(ctx context.Context) (err error) {
	ic := a.cfg.Instructions
	segs, err := a.cfg.InstructionSegments()
	if err != nil {
		return err
	}
	out := a.cfg.OutDir()
	if err := os.MkdirAll(out, 0777); err != nil {
		return err
	}

	var (
		store *db.DB
		run   *db.Run
	)
	if ic.DBDriver != "" {
		store, err = db.OpenSQL(ic.DBDriver, ic.DBDSN)
		if err != nil {
			return fmt.Errorf("opening %s database: %w", ic.DBDriver, err)
		}
		defer func() {
			err = multierr.Append(err, store.Close())
		}()
		if run, err = store.NewRun(ctx); err != nil {
			return err
		}
		a.log.Debug("storing refined rows", zap.String("driver", ic.DBDriver), zap.Int64("run", run.ID))
	}

	a.log.Info("Reading data...")
	sums := make([]instr.Summary, 0, len(segs))
	for _, seg := range segs {
		rows, err := instr.RefineFile(a.cfg.Dir, out, seg)
		if err != nil {
			return err
		}
		s := instr.Summarize(seg, rows)
		a.log.Debug("refined segment",
			zap.String("segment", seg.Label()),
			zap.String("rows", humanize.Comma(int64(s.Rows))),
			zap.String("deadInstPct", humanize.FtoaWithDigits(s.DeadInstPct, 2)),
			zap.String("wastedGasPerTx", humanize.CommafWithDigits(s.WastedGasPerTx, 1)))
		if s.Outside > 0 {
			a.log.Warn("rows outside their segment",
				zap.String("segment", seg.Label()),
				zap.String("file", seg.CSVName()),
				zap.Int("rows", s.Outside))
		}
		if run != nil {
			if err := run.InsertRows(ctx, seg, rows); err != nil {
				return err
			}
		}
		sums = append(sums, s)
	}

	if ic.Charts {
		err := instr.WriteCharts(out, sums, func(name string) {
			a.log.Info(fmt.Sprintf("Generating %s...", name))
		})
		if err != nil {
			return err
		}
	}
	if ic.Summary != "" {
		if err := createFile(ic.Summary, func(w io.Writer) error {
			return instr.WriteSummaryCSV(w, sums)
		}); err != nil {
			return err
		}
	}
	if ic.HTML != "" {
		if err := createFile(ic.HTML, func(w io.Writer) error {
			return instr.WriteHTML(w, sums)
		}); err != nil {
			return err
		}
	}
	return nil
}

// createFile creates path and calls write with it.
func createFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

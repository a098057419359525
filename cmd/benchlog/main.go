// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchlog turns the logs of EVM substate benchmark runs into tables
// and charts.
//
// Usage:
//
//	benchlog durations [--placeholder text]
//	benchlog valuegraph [--strict]
//	benchlog instructions [--out dir] [--no-charts] [--summary file] [--html file]
//	                      [--db-driver sqlite3|mysql --db-dsn dsn]
//
// Every command reads its inputs from the current directory, or from
// the directory given by --dir. Defaults may be overridden by a YAML
// file given with --config.
//
// The durations command prints a tab-separated table of substate
// transition times, one row per block segment and one column per
// worker count, read from evm-t8n-substate-w<N>-<segment>.log.
//
// The valuegraph command prints the "first,last,total,live" statistics
// of every evm-value-graph-<N>k.log as one CSV stream.
//
// The instructions command refines <N>M.csv into refined_<N>M.csv and
// draws avg_ratio.png, wasted_gas.png and boxplot.png.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql"

	"github.com/evm-substate/benchlog/internal/config"
	"github.com/evm-substate/benchlog/internal/logging"
	_ "github.com/evm-substate/benchlog/storage/db/sqlite3"
)

// app is the state shared by the subcommands.
type app struct {
	stdout, stderr io.Writer

	// Global flags.
	configPath string
	dir        string
	debug      bool
	logFile    string

	cfg *config.Config
	log *zap.Logger
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "benchlog",
		Short:         "Extract tables and charts from EVM substate benchmark logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "read settings from YAML `file`")
	pf.StringVar(&a.dir, "dir", ".", "read inputs from `directory`")
	pf.BoolVar(&a.debug, "debug", false, "enable debug logging")
	pf.StringVar(&a.logFile, "log-file", "", "also write JSON logs to `file`")

	root.AddCommand(
		a.newDurationsCommand(),
		a.newValueGraphCommand(),
		a.newInstructionsCommand(),
	)
	return root
}

// setup builds the logger and the effective configuration.
func (a *app) setup(cmd *cobra.Command) error {
	log, err := logging.New(a.stderr, a.debug, a.logFile)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.log = log

	cfg := config.Default()
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("dir") || a.configPath == "" {
		cfg.Dir = a.dir
	}
	a.cfg = cfg
	a.log.Debug("configuration loaded", zap.String("dir", cfg.Dir), zap.String("config", a.configPath))
	return nil
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "benchlog: %v\n", err)
		os.Exit(1)
	}
}

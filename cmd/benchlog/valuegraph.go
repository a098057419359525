// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evm-substate/benchlog/valuegraph"
)

func (a *app) newValueGraphCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "valuegraph",
		Short: "Collect value-graph statistics into one CSV stream",
		Long: `Valuegraph prints the line "first,last,total,live" followed by the
line after every occurrence of that header in every
evm-value-graph-<N>k.log, in file name order.

With --strict, every data line must hold four integers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.valueGraph(strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on data lines that are not four integers")
	return cmd
}

func (a *app) valueGraph(strict bool) error {
	dir := a.cfg.Dir
	names, err := valuegraph.Files(dir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		a.log.Warn("no value-graph logs found", zap.String("dir", dir))
	}
	if strict {
		recs, err := valuegraph.Records(dir)
		if err != nil {
			return err
		}
		for _, r := range recs {
			a.log.Debug("value graph", zap.String("label", r.Label),
				zap.Int64("total", r.Total), zap.Int64("live", r.Live))
		}
	}
	return valuegraph.Extract(a.stdout, dir)
}

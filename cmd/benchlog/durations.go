// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evm-substate/benchlog/substate"
)

func (a *app) newDurationsCommand() *cobra.Command {
	var placeholder string
	cmd := &cobra.Command{
		Use:   "durations",
		Short: "Print substate transition times by segment and worker count",
		Long: `Durations reads evm-t8n-substate-w<workers>-<segment>.log for every
configured worker count and segment, and prints the elapsed time of
each run in seconds as a tab-separated table.

A run whose log is missing or has no timing line contributes no cell,
so later cells of that row shift left. Use --placeholder to write a
fixed value instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("placeholder") {
				a.cfg.Durations.Placeholder = placeholder
			}
			return a.durations()
		},
	}
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "write `text` for runs without a timing")
	return cmd
}

func (a *app) durations() error {
	sub, err := a.cfg.Substate()
	if err != nil {
		return err
	}
	tab, err := substate.Extract(sub)
	if err != nil {
		return err
	}
	for _, rec := range tab.Missing() {
		a.log.Warn("no timing for run",
			zap.String("segment", rec.Segment.Label()),
			zap.Int("workers", rec.Workers),
			zap.String("path", rec.Path),
			zap.String("reason", rec.Missing))
	}
	return tab.WriteTSV(a.stdout, a.cfg.Durations.Placeholder)
}

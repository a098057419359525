// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging builds the zap loggers used by the commands.
package logging

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger that writes human-readable entries to w and,
// if logFile is set, JSON entries to logFile as well. debug lowers the
// level from info to debug.
func New(w io.Writer, debug bool, logFile string) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)

	if logFile != "" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig = enc
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
		cfg.Level.SetLevel(level)
		fileLogger, err := cfg.Build()
		if err != nil {
			return nil, err
		}
		core = zapcore.NewTee(core, fileLogger.Core())
	}
	return zap.New(core), nil
}

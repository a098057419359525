// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings of the benchlog commands. The
// defaults reproduce the standard benchmark sweep; a YAML file may
// override any of them.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/evm-substate/benchlog/segment"
	"github.com/evm-substate/benchlog/substate"
)

// Config is the full configuration.
type Config struct {
	// Dir is the directory holding the input files.
	Dir string `yaml:"dir" validate:"required"`

	Durations    DurationsConfig    `yaml:"durations"`
	Instructions InstructionsConfig `yaml:"instructions"`
}

// DurationsConfig configures the substate timing table.
type DurationsConfig struct {
	Workers    []int    `yaml:"workers" validate:"min=1,dive,gt=0"`
	Segments   []string `yaml:"segments" validate:"min=1,dive,required"`
	Marker     string   `yaml:"marker" validate:"required"`
	NameFormat string   `yaml:"name_format" validate:"required"`

	// Placeholder fills the cell of a run without a timing. Empty
	// keeps the legacy behavior of omitting the cell.
	Placeholder string `yaml:"placeholder"`
}

// InstructionsConfig configures instruction refinement and charts.
type InstructionsConfig struct {
	Segments []string `yaml:"segments" validate:"min=1,dive,required"`

	// OutDir receives refined CSVs, charts and reports. Empty means Dir.
	OutDir  string `yaml:"out_dir"`
	Charts  bool   `yaml:"charts"`
	Summary string `yaml:"summary"`
	HTML    string `yaml:"html"`

	DBDriver string `yaml:"db_driver" validate:"omitempty,oneof=sqlite3 mysql"`
	DBDSN    string `yaml:"db_dsn" validate:"required_with=DBDriver"`
}

// Default returns the configuration of the standard sweep.
func Default() *Config {
	sub := substate.DefaultConfig()
	labels := segment.Labels(segment.All())
	return &Config{
		Dir: ".",
		Durations: DurationsConfig{
			Workers:    sub.Workers,
			Segments:   labels,
			Marker:     sub.Marker,
			NameFormat: sub.NameFormat,
		},
		Instructions: InstructionsConfig{
			Segments: append([]string(nil), labels...),
			Charts:   true,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

var validate = validator.New()

// Validate checks c for missing or out-of-range settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := parseSegments(c.Durations.Segments); err != nil {
		return fmt.Errorf("durations: %w", err)
	}
	if _, err := parseSegments(c.Instructions.Segments); err != nil {
		return fmt.Errorf("instructions: %w", err)
	}
	return nil
}

// Substate returns the timing extraction settings.
func (c *Config) Substate() (substate.Config, error) {
	segs, err := parseSegments(c.Durations.Segments)
	if err != nil {
		return substate.Config{}, err
	}
	return substate.Config{
		Dir:        c.Dir,
		Workers:    c.Durations.Workers,
		Segments:   segs,
		Marker:     c.Durations.Marker,
		NameFormat: c.Durations.NameFormat,
	}, nil
}

// InstructionSegments returns the segments to refine, in order.
func (c *Config) InstructionSegments() ([]segment.Segment, error) {
	return parseSegments(c.Instructions.Segments)
}

// OutDir returns the directory for instruction outputs.
func (c *Config) OutDir() string {
	if c.Instructions.OutDir != "" {
		return c.Instructions.OutDir
	}
	return c.Dir
}

func parseSegments(labels []string) ([]segment.Segment, error) {
	segs := make([]segment.Segment, len(labels))
	for i, l := range labels {
		s, err := segment.Parse(l)
		if err != nil {
			return nil, err
		}
		segs[i] = s
	}
	return segs, nil
}

// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package elapsed parses the elapsed-time literals printed by the
// substate transition benchmarks, such as "00h01m12.345s".
//
// A literal is an optional hours component "<int>h", an optional
// minutes component "<int>m" and an optional seconds component
// "<number>s", in that order. Every component is rounded to the
// nearest integer before the duration is built, so fractional
// seconds are lost: "00h00m12.345s" is exactly 12 seconds.
package elapsed

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ErrEmpty is returned for a literal with no components at all.
var ErrEmpty = errors.New("elapsed: no duration components")

// Components holds the components present in a literal. A nil field
// was absent.
type Components struct {
	Hours   *int64
	Minutes *int64
	Seconds *float64
}

// Empty reports whether no component is present.
func (c Components) Empty() bool {
	return c.Hours == nil && c.Minutes == nil && c.Seconds == nil
}

// Duration returns the duration described by c. Absent components
// count as zero and present ones are rounded half to even.
func (c Components) Duration() time.Duration {
	var secs float64
	if c.Hours != nil {
		secs += math.RoundToEven(float64(*c.Hours)) * 3600
	}
	if c.Minutes != nil {
		secs += math.RoundToEven(float64(*c.Minutes)) * 60
	}
	if c.Seconds != nil {
		secs += math.RoundToEven(*c.Seconds)
	}
	return time.Duration(secs) * time.Second
}

func (c Components) String() string {
	s := ""
	if c.Hours != nil {
		s += fmt.Sprintf("%dh", *c.Hours)
	}
	if c.Minutes != nil {
		s += fmt.Sprintf("%dm", *c.Minutes)
	}
	if c.Seconds != nil {
		s += strconv.FormatFloat(*c.Seconds, 'f', -1, 64) + "s"
	}
	return s
}

// Parse parses the elapsed-time literal at the start of s.
// Text after the last recognized component is ignored.
func Parse(s string) (time.Duration, error) {
	c, err := ParseComponents(s)
	if err != nil {
		return 0, err
	}
	return c.Duration(), nil
}

// ParseComponents parses the literal at the start of s into its
// components without rounding them.
func ParseComponents(s string) (Components, error) {
	var c Components
	// next is the first unit still allowed: 'h', then 'm', then 's'.
	next := 0
	units := "hms"
loop:
	for next < len(units) {
		num, unit, n := scan(s)
		if n == 0 {
			break
		}
		switch {
		case unit == 'h' && next == 0 && !isFrac(num):
			v, err := strconv.ParseInt(num, 10, 64)
			if err != nil {
				return Components{}, fmt.Errorf("elapsed %q: hours: %w", s, err)
			}
			c.Hours = &v
			next = 1
		case unit == 'm' && next <= 1 && !isFrac(num):
			v, err := strconv.ParseInt(num, 10, 64)
			if err != nil {
				return Components{}, fmt.Errorf("elapsed %q: minutes: %w", s, err)
			}
			c.Minutes = &v
			next = 2
		case unit == 's':
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return Components{}, fmt.Errorf("elapsed %q: seconds: %w", s, err)
			}
			c.Seconds = &v
			next = 3
		default:
			break loop
		}
		s = s[n:]
	}
	if c.Empty() {
		return Components{}, ErrEmpty
	}
	return c, nil
}

// scan consumes "<digits>[.<digits>]<unit>" from the start of s. It
// returns the number text, the unit byte, and the number of bytes
// consumed, or n == 0 if s does not start with such a component.
func scan(s string) (num string, unit byte, n int) {
	i := digits(s)
	if i == 0 {
		return "", 0, 0
	}
	if i < len(s) && s[i] == '.' {
		if j := digits(s[i+1:]); j > 0 {
			i += 1 + j
		}
	}
	if i >= len(s) {
		return "", 0, 0
	}
	return s[:i], s[i], i + 1
}

func digits(s string) int {
	i := 0
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	return i
}

func isFrac(num string) bool {
	for i := 0; i < len(num); i++ {
		if num[i] == '.' {
			return true
		}
	}
	return false
}

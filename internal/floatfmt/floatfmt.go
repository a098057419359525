// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package floatfmt formats floats the way the legacy analysis scripts
// printed them, so that regenerated tables stay byte-compatible.
package floatfmt

import (
	"math"
	"strconv"
	"strings"
)

// Repr formats x with the shortest digits that round-trip. Integral
// values keep a ".0" suffix ("12.0"), and exponent notation is used
// only for exponents below -4 or at least 16 ("1e-05", "1e+16").
func Repr(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(x, 'e', -1, 64)
	_, expStr, _ := strings.Cut(e, "e")
	exp, _ := strconv.Atoi(expStr)
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

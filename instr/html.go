// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"fmt"
	"html/template"
	"io"

	"github.com/dustin/go-humanize"
)

var htmlTemplate = template.Must(template.New("").Funcs(htmlFuncs).Parse(`
<table class='instr'>
<tr><th>block<th>txs<th>dead inst<th>wasted gas/tx<th>gas/tx<th>ratio q1<th>ratio median<th>ratio q3
{{range . -}}
<tr><td>{{.Segment}}<td>{{comma .Rows}}<td>{{pct .DeadInstPct}}<td>{{gas .WastedGasPerTx}}<td>{{gas .GasPerTx}}<td>{{pct .RatioQ1}}<td>{{pct .RatioMedian}}<td>{{pct .RatioQ3}}
{{end -}}
</table>
`))

var htmlFuncs = template.FuncMap{
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"gas":   func(x float64) string { return humanize.CommafWithDigits(x, 1) },
	"pct":   func(x float64) string { return fmt.Sprintf("%.2f%%", x) },
}

// WriteHTML writes sums as an HTML table.
func WriteHTML(w io.Writer, sums []Summary) error {
	return htmlTemplate.Execute(w, sums)
}

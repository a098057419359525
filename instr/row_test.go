// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evm-substate/benchlog/logscan"
	"github.com/evm-substate/benchlog/segment"
)

const rawCSV = `block,txIndex,totalInst,liveInst,totalGas,liveGas,extra
20,1,100,50,2000,1000,x
10,2,0,0,0,0,x
10,0,3,1,21000,21000,x
20,1,10,10,30,0,y
`

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(rawCSV), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	want := Row{Block: 20, TxIndex: 1, TotalInst: 100, LiveInst: 50, TotalGas: 2000, LiveGas: 1000}
	if rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
	}
}

func TestReadCSVErrors(t *testing.T) {
	for _, test := range []struct {
		name, in string
		line     int
	}{
		{"short row", "a,b,c,d,e,f\n1,2,3\n", 2},
		{"not a number", "a,b,c,d,e,f\n1,2,3,4,5,6\n1,2,x,4,5,6\n", 3},
		{"short header", "a,b\n", 1},
		{"empty", "", 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(test.in), "bad.csv")
			var serr *logscan.SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("got %v, want *logscan.SyntaxError", err)
			}
			if serr.Line != test.line {
				t.Errorf("line = %d, want %d", serr.Line, test.line)
			}
		})
	}
}

func TestRefine(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(rawCSV), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	Refine(rows)

	// Sorted by (block, txIndex); the two (20, 1) rows keep their
	// input order.
	keys := make([][3]int64, len(rows))
	for i, r := range rows {
		keys[i] = [3]int64{r.Block, r.TxIndex, r.TotalInst}
	}
	want := [][3]int64{{10, 0, 3}, {10, 2, 0}, {20, 1, 100}, {20, 1, 10}}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("order = %v, want %v", keys, want)
		}
	}

	if r := rows[1]; r.RatioInst != 0 || r.RatioGas != 0 {
		t.Errorf("zero totals: ratios = %v, %v, want 0, 0", r.RatioInst, r.RatioGas)
	}
	if r := rows[2]; r.CountInst != 50 || r.RatioInst != 0.5 || r.CountGas != 1000 || r.RatioGas != 0.5 {
		t.Errorf("derived fields = %+v", r)
	}
}

func TestWriteCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(rawCSV), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	Refine(rows)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	want := `block,txIndex,totalInst,liveInst,totalGas,liveGas,countInst,ratioInst,countGas,ratioGas
10,0,3,1,21000,21000,2,0.6666666666666666,0,0.0
10,2,0,0,0,0,0,0.0,0,0.0
20,1,100,50,2000,1000,50,0.5,1000,0.5
20,1,10,10,30,0,0,0.0,30,1.0
`
	if buf.String() != want {
		t.Errorf("WriteCSV:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRefineFileIdempotent(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	seg := segment.Segment(4)
	if err := os.WriteFile(filepath.Join(in, seg.CSVName()), []byte(rawCSV), 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := RefineFile(in, out, seg); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(out, "refined_4M.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := RefineFile(in, out, seg); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(out, "refined_4M.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("second refinement differs:\n%s\nvs\n%s", first, second)
	}
}

func TestRefineFileMissing(t *testing.T) {
	_, err := RefineFile(t.TempDir(), t.TempDir(), segment.Segment(0))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want not-exist error", err)
	}
}

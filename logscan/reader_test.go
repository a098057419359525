// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logscan

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func scanAll(r *Reader) (texts, raws []string) {
	for r.Scan() {
		texts = append(texts, r.Text())
		raws = append(raws, r.Raw())
	}
	return
}

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader("a\nb\r\n\nlast"), "test")
	texts, raws := scanAll(r)
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b", "", "last"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("texts = %q, want %q", texts, want)
	}
	if want := []string{"a\n", "b\n", "\n", "last"}; !reflect.DeepEqual(raws, want) {
		t.Errorf("raws = %q, want %q", raws, want)
	}
	if r.Line() != 4 {
		t.Errorf("Line() = %d, want 4", r.Line())
	}
}

func TestFindPrefix(t *testing.T) {
	const marker = "done in "
	input := "start\ndone in   1m2s  \ndone in 3s\n"
	r := NewReader(strings.NewReader(input), "test")
	rest, ok := r.FindPrefix(marker)
	if !ok || rest != "1m2s" {
		t.Fatalf("FindPrefix = %q, %v, want %q, true", rest, ok, "1m2s")
	}
	if r.Line() != 2 {
		t.Errorf("Line() = %d, want 2", r.Line())
	}

	r.Reset(strings.NewReader("x done in 1s\n"), "test")
	if rest, ok := r.FindPrefix(marker); ok {
		t.Errorf("FindPrefix matched mid-line: %q", rest)
	}
}

func TestSyntaxError(t *testing.T) {
	r := NewReader(strings.NewReader("x\ny\n"), "log.txt")
	r.Scan()
	r.Scan()
	err := r.NewSyntaxError("bad %s", "value")
	if got, want := err.Error(), "log.txt:2: bad value"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.log")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0666); err != nil {
		t.Fatal(err)
	}
	var n int
	err := ReadFile(path, func(r *Reader) error {
		for r.Scan() {
			n++
		}
		return nil
	})
	if err != nil || n != 2 {
		t.Errorf("ReadFile: n=%d err=%v, want 2 lines", n, err)
	}

	errStop := errors.New("stop")
	if err := ReadFile(path, func(r *Reader) error { return errStop }); !errors.Is(err, errStop) {
		t.Errorf("ReadFile error = %v, want %v", err, errStop)
	}

	if err := ReadFile(filepath.Join(dir, "missing.log"), func(*Reader) error { return nil }); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) = %v, want not-exist", err)
	}
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b-2k.log", "a-10k.log", "a-1k.log", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0666); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "c-3k.log"), 0777); err != nil {
		t.Fatal(err)
	}
	got, err := Glob(dir, regexp.MustCompile(`^[a-z]-\d+k\.log$`))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a-10k.log", "a-1k.log", "b-2k.log"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Glob = %v, want %v", got, want)
	}
}

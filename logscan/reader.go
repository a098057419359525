// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logscan reads benchmark log files line by line while
// tracking positions for diagnostics.
package logscan

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// maxLine is the longest line a Reader accepts.
const maxLine = 16 << 20

// A Reader reads a log file one line at a time.
//
// Its API is modeled on bufio.Scanner. The line returned by Text and
// Raw is only valid until the next call to Scan.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	tok      []byte
	err      error
}

// A SyntaxError represents a malformed line of an input file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.FileName, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// NewReader returns a Reader over r. fileName is used in error
// messages only.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.s = bufio.NewScanner(ior)
	r.s.Buffer(nil, maxLine)
	r.s.Split(scanLines)
	r.fileName = fileName
	r.line = 0
	r.tok = nil
	r.err = nil
}

// Scan advances to the next line and reports whether there was one.
// At EOF or on an I/O error it returns false and Err reports the
// error, if any.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line+1, err)
		}
		r.tok = nil
		return false
	}
	r.line++
	r.tok = r.s.Bytes()
	return true
}

// Text returns the current line without its line terminator.
func (r *Reader) Text() string {
	return string(trimEOL(r.tok))
}

// Raw returns the current line as a text-mode reader would see it:
// the line content followed by "\n" if the line was terminated.
// A "\r\n" terminator is normalized to "\n".
func (r *Reader) Raw() string {
	text := trimEOL(r.tok)
	if len(text) == len(r.tok) {
		return string(text)
	}
	return string(text) + "\n"
}

// HasPrefix reports whether the current line starts with prefix.
func (r *Reader) HasPrefix(prefix string) bool {
	return bytes.HasPrefix(r.tok, []byte(prefix))
}

// Line returns the 1-based number of the current line.
func (r *Reader) Line() int {
	return r.line
}

// Err returns the I/O error that stopped Scan, if any.
func (r *Reader) Err() error {
	return r.err
}

// NewSyntaxError returns a *SyntaxError at the current line.
func (r *Reader) NewSyntaxError(format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, fmt.Sprintf(format, args...)}
}

// FindPrefix scans forward to the first line that starts with prefix
// and returns the remainder of that line with surrounding white space
// removed. ok is false if no such line exists.
func (r *Reader) FindPrefix(prefix string) (rest string, ok bool) {
	for r.Scan() {
		if r.HasPrefix(prefix) {
			return strings.TrimSpace(r.Text()[len(prefix):]), true
		}
	}
	return "", false
}

// ReadFile opens path, calls fn with a Reader over it, and closes the
// file on every path. A close error is combined with fn's error.
func ReadFile(path string, fn func(r *Reader) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	r := NewReader(f, path)
	if err := fn(r); err != nil {
		return err
	}
	return r.Err()
}

// scanLines is bufio.ScanLines except that it keeps the line
// terminator so that Raw can reproduce it.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func trimEOL(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
		if len(b) > 0 && b[len(b)-1] == '\r' {
			b = b[:len(b)-1]
		}
	}
	return b
}

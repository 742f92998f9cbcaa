package csharp

import (
	"bytes"
	"fmt"
	"strings"
)

// writer emits indented lines of C# into a buffer.
type writer struct {
	buf     bytes.Buffer
	level   int
	unit    string
	newline string
}

func newWriter(indentSize int, lineEnding string, level int) *writer {
	nl := "\n"
	if lineEnding == "crlf" {
		nl = "\r\n"
	}
	return &writer{level: level, unit: strings.Repeat(" ", indentSize), newline: nl}
}

// sub returns an empty writer at w's indentation level with w's formatting.
func (w *writer) sub() *writer {
	return &writer{level: w.level, unit: w.unit, newline: w.newline}
}

// line writes one line at the current indentation. An empty line carries no
// indentation.
func (w *writer) line(s string) {
	if s != "" {
		for i := 0; i < w.level; i++ {
			w.buf.WriteString(w.unit)
		}
		w.buf.WriteString(s)
	}
	w.buf.WriteString(w.newline)
}

func (w *writer) linef(format string, args ...any) {
	w.line(fmt.Sprintf(format, args...))
}

func (w *writer) blank() { w.line("") }

// open writes header followed by an opening brace and indents.
func (w *writer) open(header string) {
	w.line(header)
	w.line("{")
	w.level++
}

func (w *writer) openf(format string, args ...any) {
	w.open(fmt.Sprintf(format, args...))
}

// close dedents and writes a closing brace.
func (w *writer) close() {
	w.level--
	w.line("}")
}

// append copies the contents of other into w.
func (w *writer) append(other *writer) {
	w.buf.Write(other.buf.Bytes())
}

func (w *writer) Bytes() []byte { return w.buf.Bytes() }

func (w *writer) String() string { return w.buf.String() }

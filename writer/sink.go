// Package writer is the indented text emitter and declaration-ordering
// contract (spec.md §4.I and §6's supplemented sorting feature), a Go port
// of the original's CppWriter/Writable/SortLevel (writer.rs). It holds no
// knowledge of the type graph — every concrete declaration kind is a flat
// value that knows how to render itself to a Sink.
package writer

import (
	"bufio"
	"io"
)

// Sink is the indentation-aware text emitter every Declaration writes
// itself to. The indentation level is tracked (mirroring CppWriter's indent
// counter) but is not applied to emitted bytes: Line and WriteString write
// their text exactly as given.
type Sink struct {
	w       *bufio.Writer
	indent  uint16
	newline bool
}

// NewSink wraps w in a Sink.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w), newline: true}
}

// Indent increases the current indentation level by one.
func (s *Sink) Indent() { s.indent++ }

// Dedent decreases the current indentation level by one; it panics if
// already at zero, matching the original's CppWriter::dedent guard against
// dedenting past the start (a programmer error, not an input error).
func (s *Sink) Dedent() {
	if s.indent == 0 {
		panic("writer: dedent called at indent level 0")
	}
	s.indent--
}

// WriteString writes s verbatim and tracks whether the stream now ends on a
// newline.
func (s *Sink) WriteString(str string) error {
	if len(str) > 0 {
		s.newline = str[len(str)-1] == '\n'
	}
	_, err := s.w.WriteString(str)
	return err
}

// Line writes s followed by a newline.
func (s *Sink) Line(str string) error {
	return s.WriteString(str + "\n")
}

// Flush flushes any buffered output to the underlying writer.
func (s *Sink) Flush() error { return s.w.Flush() }

// Writable is the contract every declaration and implementation kind
// implements: render itself to the sink.
type Writable interface {
	Write(s *Sink) error
}

// Package diag carries the builder's diagnostic output path: a narrow
// Sink interface so callers can redirect or silence warnings without the
// mesh package depending on any particular logging setup.
package diag

import (
	"io"
	"log"
	"os"
)

// Sink receives formatted warning messages emitted during mesh
// construction and statistics derivation (degenerate configurations,
// incomplete Voronoi cells, clamped histogram buckets).
type Sink interface {
	Warnf(format string, args ...interface{})
}

type stdlogSink struct {
	l *log.Logger
}

func (s stdlogSink) Warnf(format string, args ...interface{}) {
	s.l.Printf(format, args...)
}

// Stderr returns the default Sink, writing to os.Stderr with no
// timestamp prefix (the caller's own logs usually already have one).
func Stderr() Sink {
	return stdlogSink{l: log.New(os.Stderr, "voronoi3d: ", 0)}
}

// Writer returns a Sink that writes to an arbitrary io.Writer.
func Writer(w io.Writer) Sink {
	return stdlogSink{l: log.New(w, "voronoi3d: ", 0)}
}

// Discard returns a Sink that drops every message.
func Discard() Sink {
	return discardSink{}
}

type discardSink struct{}

func (discardSink) Warnf(string, ...interface{}) {}

// Func adapts a plain function to the Sink interface.
type Func func(format string, args ...interface{})

func (f Func) Warnf(format string, args ...interface{}) {
	f(format, args...)
}

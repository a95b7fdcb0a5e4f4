// Package sio assembles user-facing notifications and emits each one with a
// single Write call.
//
// Job notifications (stops, terminations, background starts) are produced
// asynchronously relative to the prompt and to child output on the same
// terminal. Building the whole message in a private buffer and writing it in
// one call keeps messages from interleaving mid-line.
package sio

import (
	"io"
	"strconv"
	"sync"
)

// A Line accumulates the segments of one message.
type Line struct {
	buf []byte
}

// Str appends a string segment.
func (l *Line) Str(s string) *Line {
	l.buf = append(l.buf, s...)
	return l
}

// Int appends the decimal representation of v, negative values included.
func (l *Line) Int(v int) *Line {
	l.buf = strconv.AppendInt(l.buf, int64(v), 10)
	return l
}

// Bytes returns the accumulated message.
func (l *Line) Bytes() []byte {
	return l.buf
}

// Writer emits Lines to an underlying writer, one Write call per Line.
// Emit is safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Emit writes the whole Line with a single Write.
func (w *Writer) Emit(l *Line) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := w.w.Write(l.buf)
	return err
}

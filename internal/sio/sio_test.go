package sio_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixpig/gosh/internal/sio"
)

// countingWriter records how many Write calls it received.
type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestLineSegments(t *testing.T) {
	l := new(sio.Line).
		Str("Job [").Int(2).
		Str("] (").Int(-5).
		Str(") stopped by signal ").Int(20).
		Str("\n")

	assert.Equal(t, "Job [2] (-5) stopped by signal 20\n", string(l.Bytes()))
}

func TestWriterEmitsSingleWrite(t *testing.T) {
	out := &countingWriter{}
	w := sio.NewWriter(out)

	require.NoError(
		t,
		w.Emit(new(sio.Line).Str("[").Int(1).Str("] (").Int(42).Str(")\n")),
	)
	require.NoError(t, w.Emit(new(sio.Line).Str("second\n")))

	assert.Equal(t, 2, out.writes)
	assert.Equal(t, "[1] (42)\nsecond\n", out.String())
}

func TestIntZero(t *testing.T) {
	assert.Equal(t, "0", string(new(sio.Line).Int(0).Bytes()))
}

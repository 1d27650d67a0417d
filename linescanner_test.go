package procrun

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineFeedSplitsOnLF(t *testing.T) {
	var lines []string
	eof := false
	f := newLineFeed(func(l string) { lines = append(lines, l) }, func() { eof = true })
	f.Write([]byte("one\ntwo\nthree"))
	f.Close()
	assert.Equal(t, []string{"one", "two", "three"}, lines)
	assert.True(t, eof)
}

func TestLineFeedStripsCRLF(t *testing.T) {
	var lines []string
	f := newLineFeed(func(l string) { lines = append(lines, l) }, func() {})
	f.Write([]byte("a\r\nb\r\n"))
	f.Close()
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestLineFeedEmitsEOFExactlyOnce(t *testing.T) {
	count := 0
	f := newLineFeed(func(string) {}, func() { count++ })
	f.Close()
	f.Close()
	assert.Equal(t, 1, count)
}

func TestLineFeedLoneCRIsNotATerminator(t *testing.T) {
	var lines []string
	f := newLineFeed(func(l string) { lines = append(lines, l) }, func() {})
	f.Write([]byte("a\rb\n"))
	f.Close()
	assert.Equal(t, []string{"a\rb"}, lines)
}

func TestPumpLinesReturnsNilOnEOF(t *testing.T) {
	var lines []string
	f := newLineFeed(func(l string) { lines = append(lines, l) }, func() {})
	err := pumpLines(strings.NewReader("x\ny\n"), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, lines)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestPumpLinesPropagatesReadError(t *testing.T) {
	wantErr := errors.New("boom")
	f := newLineFeed(func(string) {}, func() {})
	err := pumpLines(failingReader{err: wantErr}, f)
	assert.ErrorIs(t, err, wantErr)
}

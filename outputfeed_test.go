package procrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFeedBufferWithinBudget(t *testing.T) {
	b := NewOutputFeedBuffer(20)
	b.Append("hello")
	b.Append("world")
	require.False(t, b.MaxSizeExceeded())
	assert.Equal(t, "hello\nworld", b.DoFinal())
}

func TestOutputFeedBufferTruncatesOverflow(t *testing.T) {
	b := NewOutputFeedBuffer(20)
	b.Append("          ")  // 10 chars
	b.Append("       ")     // 7 chars, total 10+1+7=18
	require.False(t, b.MaxSizeExceeded())
	b.Append("123") // would push to 18+1+3=22, truncated to fit 20
	assert.True(t, b.MaxSizeExceeded())
	out := b.DoFinal()
	assert.Equal(t, "          \n       \n1", out)
	assert.Len(t, out, 20)
}

func TestOutputFeedBufferIgnoresAppendsAfterOverflow(t *testing.T) {
	b := NewOutputFeedBuffer(5)
	b.Append("0123456789")
	require.True(t, b.MaxSizeExceeded())
	b.Append("more")
	assert.Equal(t, "01234", b.DoFinal())
}

func TestOutputFeedBufferEOFTracking(t *testing.T) {
	b := NewOutputFeedBuffer(100)
	assert.False(t, b.HasEnded())
	b.AppendEOF()
	assert.True(t, b.HasEnded())
}

func TestOutputFeedBufferReusableAcrossDoFinal(t *testing.T) {
	b := NewOutputFeedBuffer(10)
	b.Append("abc")
	b.AppendEOF()
	first := b.DoFinal()
	assert.Equal(t, "abc", first)
	assert.False(t, b.HasEnded())
	assert.False(t, b.MaxSizeExceeded())

	b.Append("def")
	second := b.DoFinal()
	assert.Equal(t, "def", second)
}

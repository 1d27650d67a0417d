//go:build unix

package procrun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputCollectsStdoutAndExitCode(t *testing.T) {
	res, err := NewBuilder("/bin/sh").Args("-c", "echo out; echo err >&2; exit 0").
		Output(OutputOptions{MaxOutputSize: 1024})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out", res.Stdout)
	assert.Equal(t, "err", res.Stderr)
	assert.False(t, res.TimedOut)
}

func TestOutputFeedsInputToStdin(t *testing.T) {
	res, err := NewBuilder("/bin/sh").Args("-c", "cat").
		Output(OutputOptions{Input: []byte("ping"), MaxOutputSize: 1024})
	require.NoError(t, err)
	assert.Equal(t, "ping", res.Stdout)
}

func TestOutputTimesOutAndDestroys(t *testing.T) {
	res, err := NewBuilder("/bin/sh").Args("-c", "sleep 5").Output(OutputOptions{
		MaxOutputSize: 1024,
		Timeout:       100 * time.Millisecond,
		KillGrace:     100 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
}

func TestOutputTruncatesOverBudget(t *testing.T) {
	res, err := NewBuilder("/bin/sh").Args("-c", "echo 0123456789").
		Output(OutputOptions{MaxOutputSize: 5})
	require.NoError(t, err)
	assert.True(t, res.StdoutFull)
	assert.Len(t, res.Stdout, 5)
}

//go:build unix

package procrun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessIsAliveThenExits(t *testing.T) {
	p, err := NewBuilder("/bin/sh").Args("-c", "sleep 0.25").Start()
	require.NoError(t, err)
	assert.True(t, p.IsAlive())

	code, ok := p.WaitForTimeout(2 * time.Second)
	require.True(t, ok)
	assert.Equal(t, 0, code)
	assert.False(t, p.IsAlive())
}

func TestProcessWaitForTimeoutElapses(t *testing.T) {
	p, err := NewBuilder("/bin/sh").Args("-c", "sleep 1").Start()
	require.NoError(t, err)
	defer p.DestroyForcibly()

	_, ok := p.WaitForTimeout(50 * time.Millisecond)
	assert.False(t, ok)
}

func TestProcessDestroyIsIdempotent(t *testing.T) {
	p, err := NewBuilder("/bin/sh").Args("-c", "sleep 5").Start()
	require.NoError(t, err)

	require.NoError(t, p.Destroy())
	require.NoError(t, p.Destroy())
	p.WaitForTimeout(2 * time.Second)
}

func TestProcessExitCodeBeforeExitIsStateError(t *testing.T) {
	p, err := NewBuilder("/bin/sh").Args("-c", "sleep 1").Start()
	require.NoError(t, err)
	defer p.DestroyForcibly()

	_, err = p.ExitCode()
	var stateErr *StateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestProcessNonZeroExitCode(t *testing.T) {
	p, err := NewBuilder("/bin/sh").Args("-c", "exit 3").Start()
	require.NoError(t, err)
	assert.Equal(t, 3, p.Wait())
}

package procrun

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpawnErrorUnwraps(t *testing.T) {
	cause := errors.New("no such file")
	err := &SpawnError{Name: "nope", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "nope")
}

func TestIOErrorUnwraps(t *testing.T) {
	cause := errors.New("broken pipe")
	err := &IOError{Op: "write stdin", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write stdin")
}

func TestStateErrorMessage(t *testing.T) {
	err := &StateError{State: "process hasn't exited"}
	assert.Contains(t, err.Error(), "process hasn't exited")
}

func TestArgumentErrorMessage(t *testing.T) {
	err := &ArgumentError{Msg: "command must not be empty"}
	assert.Contains(t, err.Error(), "command must not be empty")
}

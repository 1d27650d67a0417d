//go:build unix

package procrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuildFreezesRecipe(t *testing.T) {
	r, err := NewBuilder("/bin/echo").Arg("hi").ChangeDir("/tmp").Build()
	require.NoError(t, err)
	assert.Equal(t, "/bin/echo", r.Command)
	assert.Equal(t, []string{"/bin/echo", "hi"}, r.Argv)
	assert.Equal(t, "/tmp", r.Dir)
}

func TestBuilderRejectsEmptyCommand(t *testing.T) {
	_, err := NewBuilder("").Build()
	require.Error(t, err)
	var argErr *ArgumentError
	assert.ErrorAs(t, err, &argErr)
}

func TestBuilderEnvOverridesAndClears(t *testing.T) {
	r, err := NewBuilder("/bin/true").ClearEnv().Env("FOO", "bar").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"FOO=bar"}, r.Env)
}

func TestBuilderStartAndWait(t *testing.T) {
	p, err := NewBuilder("/bin/sh").Args("-c", "exit 7").Start()
	require.NoError(t, err)
	code := p.Wait()
	assert.Equal(t, 7, code)
}

func TestBuilderStartCapturesStdout(t *testing.T) {
	p, err := NewBuilder("/bin/sh").Args("-c", "echo hello").Start()
	require.NoError(t, err)

	var lines []string
	for line := range p.Stdout().Lines() {
		if line == nil {
			break
		}
		lines = append(lines, *line)
	}
	p.Wait()
	assert.Equal(t, []string{"hello"}, lines)
}

package procrun

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathIteratorRoundTrip(t *testing.T) {
	cases := []string{
		"/usr/bin:/bin",
		"a::b",
		"a:",
		":a",
		"",
		"onlyone",
	}
	for _, s := range cases {
		s := s
		t.Run(s, func(t *testing.T) {
			tokens := SplitPath(s)
			assert.Equal(t, s, JoinPath(tokens))
		})
	}
}

func TestPathIteratorEmptyElementsMeanCurrentDir(t *testing.T) {
	it := NewPathIterator("a::b")
	var got []string
	for {
		tok, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, tok)
	}
	assert.Equal(t, []string{"a", "", "b"}, got)
}

func TestLookPathFindsExecutableOnPATH(t *testing.T) {
	p, err := LookPath("ls")
	require.NoError(t, err)
	assert.NotEmpty(t, p)
}

func TestLookPathNotFound(t *testing.T) {
	_, err := LookPath("definitely-not-a-real-command-xyz")
	require.Error(t, err)
	var spawnErr *SpawnError
	require.True(t, errors.As(err, &spawnErr))
	assert.ErrorIs(t, err, ErrNotFound)
}

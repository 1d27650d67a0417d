package procrun

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// pathListSeparator is the platform's PATH element separator.
func pathListSeparator() byte {
	if runtime.GOOS == "windows" {
		return ';'
	}
	return ':'
}

// PathIterator tokenizes a PATH-style string on the platform separator,
// yielding an empty string for adjacent or terminal separators (meaning
// "current directory" per POSIX shell semantics). Rejoining the emitted
// sequence with the platform separator reproduces the input exactly.
type PathIterator struct {
	rest string
	sep  byte
	done bool
}

// NewPathIterator returns an iterator over s.
func NewPathIterator(s string) *PathIterator {
	return &PathIterator{rest: s, sep: pathListSeparator()}
}

// Next returns the next token and true, or ("", false) once every token
// (including a final empty one after a trailing separator) has been
// emitted.
func (it *PathIterator) Next() (string, bool) {
	if it.done {
		return "", false
	}
	i := strings.IndexByte(it.rest, it.sep)
	if i < 0 {
		tok := it.rest
		it.done = true
		return tok, true
	}
	tok := it.rest[:i]
	it.rest = it.rest[i+1:]
	return tok, true
}

// SplitPath tokenizes s into every PATH element, in order, using the same
// rules as PathIterator.
func SplitPath(s string) []string {
	if s == "" {
		return []string{""}
	}
	it := NewPathIterator(s)
	var out []string
	for {
		tok, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, tok)
	}
	return out
}

// JoinPath rejoins tokens with the platform PATH separator, the inverse of
// SplitPath.
func JoinPath(tokens []string) string {
	return strings.Join(tokens, string(pathListSeparator()))
}

// LookPath searches for an executable named file in the directories named
// by the PATH environment variable. If file contains a path separator, it
// is tried directly and PATH is not consulted. On success the result is an
// absolute path unless file itself was a relative path containing a
// separator.
func LookPath(file string) (string, error) {
	if strings.ContainsRune(file, os.PathSeparator) {
		if err := findExecutable(file); err != nil {
			return "", &SpawnError{Name: file, Err: err}
		}
		return file, nil
	}

	path := os.Getenv("PATH")
	for _, dir := range SplitPath(path) {
		if dir == "" {
			dir = "." // POSIX shell semantics: empty PATH element means "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			if !filepath.IsAbs(candidate) {
				return candidate, &SpawnError{Name: file, Err: ErrDot}
			}
			return candidate, nil
		}
	}
	return "", &SpawnError{Name: file, Err: ErrNotFound}
}

func findExecutable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return os.ErrPermission
	}
	if fi.Mode()&0111 == 0 {
		return os.ErrPermission
	}
	return nil
}

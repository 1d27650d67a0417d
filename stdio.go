package procrun

import "runtime"

// StdioKind selects how one of the child's standard streams is wired.
type StdioKind int

const (
	// StdioInherit passes the parent's descriptor through unchanged.
	StdioInherit StdioKind = iota
	// StdioPipe allocates an OS pipe; the parent retains one end and
	// streams it asynchronously line-by-line.
	StdioPipe
	// StdioFile opens a path, truncating it unless Append is set. For
	// stdin, Append is ignored (stdin is always opened read-only).
	StdioFile
)

// Stdio describes how a single standard stream is connected for a child
// process. The zero value is StdioInherit.
type Stdio struct {
	Kind   StdioKind
	Path   string // only meaningful when Kind == StdioFile
	Append bool   // only meaningful when Kind == StdioFile and the stream is not stdin
}

// Inherit returns a Stdio that passes the parent's descriptor through.
func Inherit() Stdio { return Stdio{Kind: StdioInherit} }

// Pipe returns a Stdio backed by a freshly allocated OS pipe.
func Pipe() Stdio { return Stdio{Kind: StdioPipe} }

// File returns a Stdio backed by the file at path. append has no effect
// when the Stdio is used for stdin: stdin is always opened read-only.
// Null-device aliases ("", "/dev/null", "NUL") are normalized to the
// platform's canonical null device path.
func File(path string, append bool) Stdio {
	if isNullDeviceAlias(path) {
		path = NullDevice()
	}
	return Stdio{Kind: StdioFile, Path: path, Append: append}
}

func isNullDeviceAlias(path string) bool {
	switch path {
	case "", "/dev/null", "NUL", "nul":
		return true
	default:
		return false
	}
}

// NullDevice returns the platform's null-device path.
func NullDevice() string {
	if runtime.GOOS == "windows" {
		return "NUL"
	}
	return "/dev/null"
}

// StdioTriple bundles the three standard streams of a launch recipe.
type StdioTriple struct {
	Stdin  Stdio
	Stdout Stdio
	Stderr Stdio
}

// defaultStdioTriple is what a fresh Builder starts with: all three
// streams piped, matching the "collect everything by default" posture of
// the Output driver while still letting Start() callers downgrade to
// Inherit explicitly.
func defaultStdioTriple() StdioTriple {
	return StdioTriple{Stdin: Pipe(), Stdout: Pipe(), Stderr: Pipe()}
}

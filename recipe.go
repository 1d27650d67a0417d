//go:build unix

package procrun

import "syscall"

// PlatformOptions holds the platform-specific knobs a Builder accumulates.
// Most fields are meaningful only to a specific backend; the POSIX launcher
// in this repository honors DestroySignal and UsePosixSpawn and ignores the
// Windows/Node-only fields, which exist so a LaunchRecipe built here can
// still be handed to an external backend.
type PlatformOptions struct {
	// Shell, when non-empty, names the shell to run the command through.
	// Honored only by a Node-hosted backend; the POSIX launcher never
	// parses a shell command line itself.
	Shell string
	// WindowsHide hides the child's console window. Windows-only; default true.
	WindowsHide bool
	// WindowsVerbatimArguments skips argv quoting. Windows-only.
	WindowsVerbatimArguments bool
	// UsePosixSpawn selects posix_spawn/posix_spawnp over fork+execve when
	// true (the default) and the platform supports it.
	UsePosixSpawn bool
	// DestroySignal is the signal Process.Destroy sends. Defaults to
	// SIGTERM on POSIX.
	DestroySignal syscall.Signal
}

func defaultPlatformOptions() PlatformOptions {
	return PlatformOptions{
		WindowsHide:   true,
		UsePosixSpawn: true,
		DestroySignal: syscall.SIGTERM,
	}
}

func signalFromInt(sig int) syscall.Signal { return syscall.Signal(sig) }

// LaunchRecipe is the frozen, validated configuration handed to a launcher.
// It is constructed once by Builder.Build and consumed once by Start.
type LaunchRecipe struct {
	Command string
	Argv    []string
	Env     []string // ordered "key=value" pairs, unique keys, last write wins
	Dir     string
	Stdio   StdioTriple
	Options PlatformOptions
}

// Package procrun launches external executables, wires their standard
// streams, and observes their lifecycle. The POSIX launcher in this
// package drives posix_spawn/posix_spawnp with a fork+execve fallback;
// other runtimes can implement the processBackend contract described in
// backend.go without touching the rest of the package.
//
// The entry point is Builder: configure a command, then either Start it
// and drive the returned Process yourself, or call Output to run it to
// completion and collect bounded stdout/stderr.
package procrun

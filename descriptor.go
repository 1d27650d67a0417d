//go:build unix

package procrun

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// descriptor wraps a raw OS file descriptor with an idempotent close.
// Every descriptor allocated by the launcher has exactly one closer;
// close() after the first call returns EBADF instead of panicking or
// double-freeing.
type descriptor struct {
	mu     sync.Mutex
	fd     int
	closed bool
}

func newDescriptor(fd int) *descriptor {
	return &descriptor{fd: fd}
}

// withFD yields the raw fd inside a critical section that rejects calls
// after close.
func (d *descriptor) withFD(block func(fd int) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return &IOError{Op: "withFD", Err: unix.EBADF}
	}
	return block(d.fd)
}

// close is idempotent: the first call closes the fd and returns its
// result; every subsequent call returns EBADF without touching the fd
// again.
func (d *descriptor) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return unix.EBADF
	}
	d.closed = true
	return unix.Close(d.fd)
}

// pipePair is one OS pipe: both ends belong together but are closed
// independently.
type pipePair struct {
	readEnd  *descriptor
	writeEnd *descriptor
}

// openPipe is implemented per platform (descriptor_pipe_darwin.go,
// descriptor_pipe_pipe2.go): darwin has no SYS_pipe2, every other unix
// platform in x/sys/unix does.

// openFile opens a fd for File stdio: read-only when isStdin, write-only
// (truncate or append per Stdio.Append) otherwise. O_CLOEXEC keeps the
// original fd from leaking into the child past its scheduled dup2 — both
// spawn strategies only install what the plan names and no strategy
// sweeps the child's fd table, so the source fd must never be inheritable
// on its own.
func openFile(s Stdio, isStdin bool) (*descriptor, error) {
	var flags int
	var perm os.FileMode = 0644
	switch {
	case isStdin:
		flags = unix.O_RDONLY
	case s.Append:
		flags = unix.O_WRONLY | unix.O_CREAT | unix.O_APPEND
	default:
		flags = unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC
	}
	fd, err := unix.Open(s.Path, flags|unix.O_CLOEXEC, uint32(perm))
	if err != nil {
		return nil, &IOError{Op: "open " + s.Path, Err: err}
	}
	return newDescriptor(fd), nil
}

// descriptorPlanAction is one dup2 step the child performs before exec:
// move fd to targetFD. Files are opened directly by the launcher
// (openFile) and scheduled the same way as a pipe end, so a plan never
// needs to represent an open step of its own.
type descriptorPlanAction struct {
	fd       int
	targetFD int
}

// descriptorPlan is the ordered list of dup2 actions executed in the
// child context before exec, plus the bookkeeping needed to clean up in
// the parent after a successful or failed spawn.
type descriptorPlan struct {
	actions []descriptorPlanAction

	// parentClosesAfterSpawn holds the child-side descriptors the parent
	// must close immediately after a successful spawn.
	parentClosesAfterSpawn []*descriptor

	// allocated holds every descriptor this plan opened, in allocation
	// order, so a failure path before spawn can close all of them in
	// reverse order.
	allocated []*descriptor
}

func (p *descriptorPlan) addDup2(fd, targetFD int) {
	p.actions = append(p.actions, descriptorPlanAction{fd: fd, targetFD: targetFD})
}

// unwind closes every descriptor this plan allocated, in reverse order of
// allocation, for use on any failure path before a successful spawn.
func (p *descriptorPlan) unwind() {
	for i := len(p.allocated) - 1; i >= 0; i-- {
		p.allocated[i].close()
	}
}

// closeParentSideAfterSpawn closes the child-side descriptors now that the
// child has inherited them via dup2.
func (p *descriptorPlan) closeParentSideAfterSpawn() {
	for _, d := range p.parentClosesAfterSpawn {
		d.close()
	}
}

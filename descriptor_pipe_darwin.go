//go:build darwin

package procrun

import "golang.org/x/sys/unix"

// openPipe opens a pipe via pipe()+fcntl(FD_CLOEXEC): darwin has no
// SYS_pipe2, so CLOEXEC has to be set in a second step after the pipe
// already exists. This window is only ever crossed here, before any
// fork/spawn has been issued, so it does not race a concurrent forker.
func openPipe() (*pipePair, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, &IOError{Op: "pipe", Err: err}
	}
	for _, fd := range fds {
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return nil, &IOError{Op: "fcntl(FD_CLOEXEC)", Err: err}
		}
	}
	return &pipePair{
		readEnd:  newDescriptor(fds[0]),
		writeEnd: newDescriptor(fds[1]),
	}, nil
}

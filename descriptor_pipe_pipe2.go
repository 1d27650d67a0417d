//go:build unix && !darwin

package procrun

import "golang.org/x/sys/unix"

// openPipe opens a pipe via pipe2(O_CLOEXEC), atomically setting
// close-on-exec at creation. x/sys/unix defines Pipe2 on every unix
// platform this build tag admits except darwin, which has its own
// variant in descriptor_pipe_darwin.go.
func openPipe() (*pipePair, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return nil, &IOError{Op: "pipe2", Err: err}
	}
	return &pipePair{
		readEnd:  newDescriptor(fds[0]),
		writeEnd: newDescriptor(fds[1]),
	}, nil
}

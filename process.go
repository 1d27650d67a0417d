//go:build unix

package procrun

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// processState is the lifecycle state machine: Running -> Exited is the
// natural path; Running -> (destroyed, pending) -> Exited happens when
// Destroy/DestroyForcibly races the natural exit. Both paths are
// terminal for the pid, but the Process value stays queryable afterward.
type processState int32

const (
	stateRunning processState = iota
	stateExited
)

// ProcessState describes an exited process, as reported by Wait: pid
// plus the raw unix.WaitStatus and rusage, with accessors matching the
// standard library's os.ProcessState.
type ProcessState struct {
	pid    int
	status unix.WaitStatus
	rusage unix.Rusage
}

func (p *ProcessState) Pid() int      { return p.pid }
func (p *ProcessState) Exited() bool  { return p.status.Exited() }
func (p *ProcessState) Success() bool { return p.status.Exited() && p.status.ExitStatus() == 0 }
func (p *ProcessState) Sys() any      { return p.status }
func (p *ProcessState) SysUsage() any { return &p.rusage }

// ExitCode returns the exit code of the exited process. A terminating
// signal is reported as 128+signum, matching shell convention.
func (p *ProcessState) ExitCode() int {
	switch {
	case p.status.Exited():
		return p.status.ExitStatus()
	case p.status.Signaled():
		return 128 + int(p.status.Signal())
	default:
		return -1
	}
}

func (p *ProcessState) String() string {
	if p == nil {
		return "<nil>"
	}
	switch {
	case p.status.Exited():
		return fmt.Sprintf("exit status %d", p.status.ExitStatus())
	case p.status.Signaled():
		s := "signal: " + p.status.Signal().String()
		if p.status.CoreDump() {
			s += " (core dumped)"
		}
		return s
	default:
		return fmt.Sprintf("unknown status: %v", p.status)
	}
}

// ExitError reports an unsuccessful exit by a command.
type ExitError struct {
	*ProcessState
}

func (e *ExitError) Error() string { return e.ProcessState.String() }

// streamReader is the line-scanned read handle for stdout/stderr: a
// channel of lines terminated by a single nil sentinel emitted on EOF.
type streamReader struct {
	lines chan *string
}

// Lines returns the channel of scanned lines; a nil pointer is the EOF
// sentinel, emitted exactly once.
func (s *streamReader) Lines() <-chan *string { return s.lines }

// Process is the handle to a launched child: pid, lifecycle state, exit
// latch, and the line-scanned stream handles. It is created by a launcher
// and uniquely owned by its caller.
type Process struct {
	pid           int
	destroySignal syscall.Signal

	state atomic.Int32 // processState

	exitDone chan struct{} // closed once exitCode is populated
	exitMu   sync.Mutex
	exitCode *ProcessState

	destroyOnce  sync.Once
	forciblyOnce sync.Once

	stdinW  io.WriteCloser
	stdoutR *streamReader
	stderrR *streamReader

	// closeOnExit holds parent-side descriptors/files to close once the
	// child has been reaped, so every descriptor opened by the launcher
	// is closed exactly once.
	closeOnExit []io.Closer
}

// Pid returns the process id. Stable across the Process's lifetime.
func (p *Process) Pid() int { return p.pid }

// IsAlive reports whether the process has not yet been observed to exit.
func (p *Process) IsAlive() bool {
	return processState(p.state.Load()) == stateRunning
}

// ExitCode returns the exit code if the process has exited, else a
// StateError.
func (p *Process) ExitCode() (int, error) {
	select {
	case <-p.exitDone:
		return p.exitCode.ExitCode(), nil
	default:
		return 0, &StateError{State: "process hasn't exited"}
	}
}

// WaitFor blocks until the process exits or ctx is canceled, whichever
// happens first. Canceling ctx does not affect the child; the caller may
// Destroy it. Pair with context.WithTimeout for duration-based waits.
func (p *Process) WaitFor(ctx context.Context) (int, error) {
	select {
	case <-p.exitDone:
		return p.exitCode.ExitCode(), nil
	case <-ctx.Done():
		return 0, &InterruptedError{}
	}
}

// Wait blocks until the process exits and returns its exit code.
func (p *Process) Wait() int {
	<-p.exitDone
	return p.exitCode.ExitCode()
}

// WaitForTimeout blocks up to d for the process to exit, returning early
// as soon as it does. It returns (code, true) if the process exited
// within the window, or (0, false) if d elapsed first.
func (p *Process) WaitForTimeout(d time.Duration) (int, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.exitDone:
		return p.exitCode.ExitCode(), true
	case <-timer.C:
		return 0, false
	}
}

// Destroy sends the configured destroy signal (SIGTERM by default) once
// and returns immediately without waiting for the child to exit. A no-op
// once the process has exited or after the first call.
func (p *Process) Destroy() error {
	var sigErr error
	p.destroyOnce.Do(func() {
		if !p.IsAlive() {
			return
		}
		log.Info("destroying process", zap.Int("pid", p.pid), zap.String("signal", p.destroySignal.String()))
		sigErr = unix.Kill(p.pid, p.destroySignal)
	})
	return sigErr
}

// DestroyForcibly sends SIGKILL once and returns immediately. A no-op
// once the process has exited or after the first call.
func (p *Process) DestroyForcibly() error {
	var sigErr error
	p.forciblyOnce.Do(func() {
		if !p.IsAlive() {
			return
		}
		log.Info("force-destroying process", zap.Int("pid", p.pid))
		sigErr = unix.Kill(p.pid, syscall.SIGKILL)
	})
	return sigErr
}

// Stdin returns the write handle for the child's standard input, or nil
// if stdin was not configured as a Pipe.
func (p *Process) Stdin() io.WriteCloser { return p.stdinW }

// Stdout returns the line-scanned read handle for standard output, or nil
// if stdout was not configured as a Pipe.
func (p *Process) Stdout() *streamReader { return p.stdoutR }

// Stderr returns the line-scanned read handle for standard error, or nil
// if stderr was not configured as a Pipe.
func (p *Process) Stderr() *streamReader { return p.stderrR }

// reap runs in its own goroutine (spawned by the launcher immediately
// after a successful Start): it blocks on waitpid, populates the exit
// latch exactly once, and closes the handles in closeOnExit (the stdin
// write end). The stdout/stderr read ends are not closed here: their pump
// goroutines close them once the stream reaches EOF.
func (p *Process) reap() {
	var status unix.WaitStatus
	var rusage unix.Rusage
	unix.Wait4(p.pid, &status, 0, &rusage)

	p.exitMu.Lock()
	p.exitCode = &ProcessState{pid: p.pid, status: status, rusage: rusage}
	p.exitMu.Unlock()

	p.state.Store(int32(stateExited))
	for _, c := range p.closeOnExit {
		c.Close()
	}
	close(p.exitDone)

	log.Info("process exited", zap.Int("pid", p.pid), zap.String("state", p.exitCode.String()))
}

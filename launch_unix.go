//go:build unix

package procrun

import (
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// spawnStrategy is implemented by both POSIX spawn drivers: the
// posix_spawn/posix_spawnp arm (spawn_posixspawn_*.go, cgo) and the
// fork+execve fallback (spawn_forkexec_unix.go). launch chooses between
// them based on the recipe's UsePosixSpawn option and platform support.
type spawnStrategy interface {
	// available reports whether this strategy can be used on the running
	// platform (e.g. posix_spawn is unavailable on Android API < 28).
	available() bool
	// spawn executes the recipe against the materialized plan and
	// returns the child pid.
	spawn(path string, argv, env []string, dir string, plan *descriptorPlan) (int, error)
}

// launch is the POSIX launcher entry point: it resolves the executable
// path, materializes the stdio triple into a descriptorPlan, selects a
// spawn strategy, and wraps the resulting pid into a Process with its
// stream machinery already running.
func launch(r *LaunchRecipe) (*Process, error) {
	path, err := resolveCommandPath(r.Command)
	if err != nil {
		return nil, err
	}

	plan := &descriptorPlan{}
	stdinW, stdinFD, err := materializeStdin(r.Stdio.Stdin, plan)
	if err != nil {
		plan.unwind()
		return nil, err
	}
	stdoutR, stdoutFD, err := materializeOutput(r.Stdio.Stdout, plan)
	if err != nil {
		plan.unwind()
		return nil, err
	}
	stderrR, stderrFD, err := materializeOutput(r.Stdio.Stderr, plan)
	if err != nil {
		plan.unwind()
		return nil, err
	}
	if stdinFD >= 0 {
		plan.addDup2(stdinFD, 0)
	}
	if stdoutFD >= 0 {
		plan.addDup2(stdoutFD, 1)
	}
	if stderrFD >= 0 {
		plan.addDup2(stderrFD, 2)
	}

	env := r.Env
	if env == nil {
		env = os.Environ()
	}
	argv := r.Argv
	if len(argv) == 0 {
		argv = []string{r.Command}
	}

	strategy := chooseStrategy(r.Options.UsePosixSpawn)

	log.Info("spawning", zap.String("path", path), zap.Strings("argv", argv), zap.String("dir", r.Dir))
	pid, err := strategy.spawn(path, argv, env, r.Dir, plan)
	if err != nil {
		plan.unwind()
		return nil, &SpawnError{Name: r.Command, Err: err}
	}
	plan.closeParentSideAfterSpawn()

	destroySig := r.Options.DestroySignal
	if destroySig == 0 {
		destroySig = unix.SIGTERM
	}

	p := &Process{
		pid:           pid,
		destroySignal: destroySig,
		exitDone:      make(chan struct{}),
	}

	if stdinW != nil {
		p.stdinW = stdinW
		p.closeOnExit = append(p.closeOnExit, stdinW)
	}
	if stdoutR != nil {
		p.stdoutR = stdoutR.reader
		startStreamPump(stdoutR)
	}
	if stderrR != nil {
		p.stderrR = stderrR.reader
		startStreamPump(stderrR)
	}

	go p.reap()
	return p, nil
}

func chooseStrategy(usePosixSpawn bool) spawnStrategy {
	if usePosixSpawn {
		if s := posixSpawnStrategy(); s.available() {
			return s
		}
	}
	return forkExecStrategy()
}

// resolveCommandPath resolves command to an executable path: as-is if it
// contains a path separator, else via PATH.
func resolveCommandPath(command string) (string, error) {
	if containsPathSeparator(command) {
		return command, nil
	}
	path, err := LookPath(command)
	if err != nil {
		return "", err
	}
	return path, nil
}

func containsPathSeparator(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}

// materializeStdin turns the stdin Stdio into either nothing (Inherit),
// an opened file descriptor appended to the plan (File), or a pipe whose
// write end the parent keeps and whose read end is scheduled for dup2
// onto fd 0 (Pipe).
func materializeStdin(s Stdio, plan *descriptorPlan) (writeHandle *pipeWriteCloser, childFD int, err error) {
	switch s.Kind {
	case StdioInherit:
		return nil, -1, nil
	case StdioFile:
		d, err := openFile(s, true)
		if err != nil {
			return nil, -1, err
		}
		plan.allocated = append(plan.allocated, d)
		plan.parentClosesAfterSpawn = append(plan.parentClosesAfterSpawn, d)
		return nil, d.fd, nil
	case StdioPipe:
		pp, err := openPipe()
		if err != nil {
			return nil, -1, err
		}
		plan.allocated = append(plan.allocated, pp.readEnd, pp.writeEnd)
		plan.parentClosesAfterSpawn = append(plan.parentClosesAfterSpawn, pp.readEnd)
		return &pipeWriteCloser{d: pp.writeEnd}, pp.readEnd.fd, nil
	default:
		return nil, -1, &ArgumentError{Msg: "unknown stdio kind"}
	}
}

// pipeOutput bundles the parent-side read descriptor with its already
// wired streamReader, so launch can start the pump goroutine (which
// builds the line feed) after the plan has closed the child-side end.
type pipeOutput struct {
	d      *descriptor
	reader *streamReader
}

// materializeOutput is the stdout/stderr counterpart of materializeStdin.
func materializeOutput(s Stdio, plan *descriptorPlan) (out *pipeOutput, childFD int, err error) {
	switch s.Kind {
	case StdioInherit:
		return nil, -1, nil
	case StdioFile:
		d, err := openFile(s, false)
		if err != nil {
			return nil, -1, err
		}
		plan.allocated = append(plan.allocated, d)
		plan.parentClosesAfterSpawn = append(plan.parentClosesAfterSpawn, d)
		return nil, d.fd, nil
	case StdioPipe:
		pp, err := openPipe()
		if err != nil {
			return nil, -1, err
		}
		plan.allocated = append(plan.allocated, pp.readEnd, pp.writeEnd)
		plan.parentClosesAfterSpawn = append(plan.parentClosesAfterSpawn, pp.writeEnd)
		sr := &streamReader{lines: make(chan *string, 64)}
		return &pipeOutput{d: pp.readEnd, reader: sr}, pp.writeEnd.fd, nil
	default:
		return nil, -1, &ArgumentError{Msg: "unknown stdio kind"}
	}
}

// startStreamPump runs the line scanner over a pipe's read descriptor in
// its own goroutine, closing the descriptor once the stream ends.
func startStreamPump(po *pipeOutput) {
	go func() {
		feed := newLineFeed(
			func(line string) { po.reader.lines <- &line },
			func() { po.reader.lines <- nil },
		)
		r := &descriptorReader{d: po.d}
		if err := pumpLines(r, feed); err != nil {
			log.Warn("stream pump error", zap.Error(err))
		}
		po.d.close()
	}()
}

// descriptorReader adapts a *descriptor to io.Reader for pumpLines.
type descriptorReader struct{ d *descriptor }

func (r *descriptorReader) Read(p []byte) (int, error) {
	var n int
	var readErr error
	err := r.d.withFD(func(fd int) error {
		n, readErr = unix.Read(fd, p)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if readErr != nil {
		return 0, readErr
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// pipeWriteCloser adapts a *descriptor to io.WriteCloser for Process.Stdin.
type pipeWriteCloser struct{ d *descriptor }

func (w *pipeWriteCloser) Write(p []byte) (int, error) {
	var n int
	err := w.d.withFD(func(fd int) error {
		var werr error
		n, werr = unix.Write(fd, p)
		return werr
	})
	if err != nil {
		return n, &IOError{Op: "write stdin", Err: err}
	}
	return n, nil
}

func (w *pipeWriteCloser) Close() error {
	return w.d.close()
}

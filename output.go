//go:build unix

package procrun

import (
	"time"

	"go.uber.org/zap"
)

// OutputOptions configures a single run-to-completion launch.
type OutputOptions struct {
	// Input, if non-nil, is written to the child's stdin and then the pipe
	// is closed. It is zeroed after it has been fully written so a caller
	// passing sensitive input doesn't have it linger in this buffer.
	Input []byte
	// MaxOutputSize bounds stdout and stderr independently, in characters.
	MaxOutputSize int
	// Timeout bounds the whole run. Zero means wait indefinitely.
	Timeout time.Duration
	// KillGrace is how long Destroy is given to work before DestroyForcibly
	// is sent, once Timeout has elapsed. Defaults to 2s.
	KillGrace time.Duration
}

// OutputResult is the outcome of a completed or terminated Output run.
type OutputResult struct {
	ExitCode   int
	Stdout     string
	Stderr     string
	TimedOut   bool
	StdoutFull bool
	StderrFull bool
}

// Output starts the recipe, feeds it Input (if any), drains stdout/stderr
// into bounded buffers, and waits for it to finish or for Timeout to
// elapse. On timeout it escalates Destroy -> (after KillGrace) ->
// DestroyForcibly and still returns whatever output had accumulated.
func (b *Builder) Output(opts OutputOptions) (*OutputResult, error) {
	b.stdio.Stdin = Pipe()
	b.stdio.Stdout = Pipe()
	b.stdio.Stderr = Pipe()

	p, err := b.Start()
	if err != nil {
		return nil, err
	}

	if opts.KillGrace <= 0 {
		opts.KillGrace = 2 * time.Second
	}
	if opts.MaxOutputSize <= 0 {
		opts.MaxOutputSize = 1 << 30
	}

	if len(opts.Input) > 0 {
		in := p.Stdin()
		go func() {
			in.Write(opts.Input)
			in.Close()
			for i := range opts.Input {
				opts.Input[i] = 0
			}
		}()
	} else if in := p.Stdin(); in != nil {
		in.Close()
	}

	stdoutBuf := NewOutputFeedBuffer(opts.MaxOutputSize)
	stderrBuf := NewOutputFeedBuffer(opts.MaxOutputSize)
	stdoutDone := make(chan struct{})
	stderrDone := make(chan struct{})
	go drainInto(p.Stdout(), stdoutBuf, stdoutDone)
	go drainInto(p.Stderr(), stderrBuf, stderrDone)

	result := &OutputResult{}

	if opts.Timeout <= 0 {
		p.Wait()
	} else if _, ok := p.WaitForTimeout(opts.Timeout); !ok {
		result.TimedOut = true
		log.Info("output run timed out, destroying", zap.Int("pid", p.Pid()))
		p.Destroy()
		if _, ok := p.WaitForTimeout(opts.KillGrace); !ok {
			p.DestroyForcibly()
			p.WaitForTimeout(5 * time.Second)
		}
	}

	<-stdoutDone
	<-stderrDone

	code, err := p.ExitCode()
	if err == nil {
		result.ExitCode = code
	}
	result.Stdout = stdoutBuf.DoFinal()
	result.Stderr = stderrBuf.DoFinal()
	result.StdoutFull = stdoutBuf.MaxSizeExceeded()
	result.StderrFull = stderrBuf.MaxSizeExceeded()
	return result, nil
}

// drainInto reads every line from sr into buf until the EOF sentinel,
// signaling done when it has.
func drainInto(sr *streamReader, buf *OutputFeedBuffer, done chan<- struct{}) {
	defer close(done)
	if sr == nil {
		return
	}
	for line := range sr.Lines() {
		if line == nil {
			buf.AppendEOF()
			return
		}
		buf.Append(*line)
	}
}

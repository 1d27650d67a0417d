package procrun

import (
	"bytes"
	"io"
)

// lineFeed turns chunked bytes into complete-line strings. \n, \r\n, and a
// final flush are treated as boundaries; a lone \r is not a terminator.
// Not restartable: once Close has fired emitEOF, further Write calls are a
// caller bug and are ignored.
//
// lineFeed implements io.Writer so it composes with io.Copy-style pump
// goroutines.
type lineFeed struct {
	buf     []byte
	emit    func(line string)
	emitEOF func()
	closed  bool
}

func newLineFeed(emit func(line string), emitEOF func()) *lineFeed {
	return &lineFeed{emit: emit, emitEOF: emitEOF}
}

// Write implements io.Writer, splitting p on \n and emitting each complete
// line (with a trailing \r stripped). Partial content is buffered until
// the next Write or Close.
func (f *lineFeed) Write(p []byte) (int, error) {
	if f.closed {
		return len(p), nil
	}
	n := len(p)
	f.buf = append(f.buf, p...)
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}
		line := f.buf[:i]
		line = bytes.TrimSuffix(line, []byte{'\r'})
		f.emit(string(line))
		f.buf = f.buf[i+1:]
	}
	return n, nil
}

// Close flushes a non-empty trailing remainder as a final line, then
// emits EOF exactly once.
func (f *lineFeed) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if len(f.buf) > 0 {
		f.emit(string(f.buf))
		f.buf = nil
	}
	f.emitEOF()
	return nil
}

// pumpLines reads r to completion, feeding every chunk through feed, and
// always closes feed on return (EOF or read error) so the EOF sentinel
// fires exactly once regardless of how the stream ended.
func pumpLines(r io.Reader, feed *lineFeed) error {
	defer feed.Close()
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			feed.Write(buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

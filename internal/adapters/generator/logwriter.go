package generator

import (
	"bytes"
	"strings"
	"sync"

	"go.trai.ch/press/internal/core/ports"
)

// lineSink collects the lines of both output streams in arrival order.
type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) add(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
}

// Lines returns a copy of the collected lines.
func (s *lineSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// logWriter buffers partial writes and logs every complete line under the generator tag.
type logWriter struct {
	logger ports.Logger
	sink   *lineSink

	mu  sync.Mutex
	buf bytes.Buffer
}

func newLogWriter(logger ports.Logger, sink *lineSink) *logWriter {
	return &logWriter{logger: logger, sink: sink}
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
	}
	return len(p), nil
}

// Flush logs a trailing line that was not terminated by a newline.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return
	}
	line := strings.TrimSuffix(w.buf.String(), "\r")
	w.buf.Reset()
	w.emit(line)
}

func (w *logWriter) emit(line string) {
	w.sink.add(line)
	w.logger.Log(nil, line, Component)
}

// Package linear prints task lifecycle lines in chronological order, the way a
// task runner reports to a plain terminal or a CI log.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/ui/output"
	"go.trai.ch/press/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

const clockFormat = "15:04:05"

// Renderer implements ports.Renderer. Lifecycle lines go to stderr, task output
// lines to stdout prefixed with the task name.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	json    *slog.Logger
	tasks   map[string]*taskState
	buffers map[string]*bytes.Buffer
}

type taskState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.New(stderr, output.Basic),
		tasks:   make(map[string]*taskState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// SetJSON switches lifecycle lines to JSON records on stderr.
func (r *Renderer) SetJSON(enable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !enable {
		r.json = nil
		return
	}
	r.json = slog.New(slog.NewJSONHandler(r.stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Start does nothing; the renderer is synchronous.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop prints whatever partial lines are still buffered.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}
	return nil
}

// Wait does nothing; the renderer is synchronous.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the tasks about to run.
func (r *Renderer) OnPlanEmit(tasks []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.json != nil {
		r.json.Info("plan", slog.Any("tasks", tasks), slog.Any("targets", targets))
		return
	}

	_, _ = fmt.Fprintf(r.stderr, "%s Running %s for %s\n",
		r.clock(time.Now()), r.names(tasks), r.names(targets))
}

// OnTaskStart prints the start line of a task.
func (r *Renderer) OnTaskStart(spanID, _ string, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{name: name, startTime: startTime}
	r.buffers[spanID] = new(bytes.Buffer)

	if r.json != nil {
		r.json.Info("task started", slog.String("task", name))
		return
	}

	_, _ = fmt.Fprintf(r.stderr, "%s Starting %s...\n", r.clock(startTime), r.name(name))
}

// OnTaskLog prints complete lines of task output. A trailing partial line is
// kept until more output or the end of the task arrives.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		idx := bytes.IndexByte(buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := buf.Next(idx + 1)
		r.printLineLocked(task.name, line)
	}
}

// OnTaskComplete prints the finish line of a task with its duration.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)
	duration := endTime.Sub(task.startTime)

	switch {
	case r.json != nil && err != nil:
		r.json.Error("task failed", slog.String("task", task.name),
			slog.Duration("duration", duration), slog.String("error", err.Error()))
	case r.json != nil:
		r.json.Info("task finished", slog.String("task", task.name), slog.Duration("duration", duration))
	case err != nil:
		_, _ = fmt.Fprintf(r.stderr, "%s %s errored after %s\n",
			r.clock(endTime),
			output.Paint(r.output, quote(task.name), style.Failure),
			r.duration(duration))
	default:
		_, _ = fmt.Fprintf(r.stderr, "%s Finished %s after %s\n",
			r.clock(endTime), r.name(task.name), r.duration(duration))
	}

	delete(r.tasks, spanID)
	delete(r.buffers, spanID)
}

// flushBufferLocked must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(task.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(taskName string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", taskName, line)
}

func (r *Renderer) clock(t time.Time) string {
	return "[" + r.output.String(t.Format(clockFormat)).Faint().String() + "]"
}

func (r *Renderer) name(name string) string {
	return output.Paint(r.output, quote(name), style.Task)
}

func (r *Renderer) names(names []string) string {
	styled := make([]string, len(names))
	for i, n := range names {
		styled[i] = r.name(n)
	}
	return strings.Join(styled, ", ")
}

func (r *Renderer) duration(d time.Duration) string {
	return output.Paint(r.output, formatDuration(d), style.Timing)
}

func quote(name string) string {
	return "'" + name + "'"
}

// formatDuration renders d with a unit suited to its size: "850 μs", "12 ms", "1.4 s".
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d μs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1f s", d.Seconds())
	default:
		return fmt.Sprintf("%.1f min", d.Minutes())
	}
}

// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/ui/style"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
	notifier ports.Notifier
}

// New creates a new Logger writing to stderr. Errors passed to Log are forwarded to
// notifier, which may be nil.
func New(notifier ports.Notifier) *Logger {
	l := &Logger{notifier: notifier}
	l.SetOutput(os.Stderr)
	return l
}

// SetOutput updates the logger's output destination.
// It preserves the current JSON mode setting.
// If w is nil, os.Stderr is used as the default.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandler())
}

// SetJSON switches between JSON and pretty logging.
// The output destination is preserved from SetOutput calls.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.newHandler())
}

// newHandler must be called with l.mu held.
func (l *Logger) newHandler() slog.Handler {
	w := l.output
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error and its cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorChain(err))
}

// Log writes message tagged with component, one record per line. Leading and
// trailing commas are stripped first. When err is non-nil the terminal bell is rung
// and err is forwarded to the notifier before any line is written.
func (l *Logger) Log(err error, message, component string) {
	lines := SplitMessage(message)

	if err != nil {
		l.alert(err)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}

	for i, line := range lines {
		attrs := []any{slog.String(ComponentKey, component)}
		if i > 0 {
			attrs = append(attrs, slog.Bool(ContinuedKey, true))
		}
		if err != nil && l.jsonMode && i == 0 {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		l.logger.Log(context.Background(), level, line, attrs...)
	}
}

// alert rings the bell on pretty output and notifies connected clients.
func (l *Logger) alert(err error) {
	l.mu.RLock()
	if !l.jsonMode {
		_, _ = io.WriteString(l.output, style.Bell)
	}
	notifier := l.notifier
	l.mu.RUnlock()

	if notifier != nil {
		notifier.Notify(err.Error())
	}
}

// SplitMessage strips one leading and one trailing comma and splits the remainder
// into lines.
func SplitMessage(message string) []string {
	message = strings.TrimPrefix(message, ",")
	message = strings.TrimSuffix(message, ",")
	return strings.Split(message, "\n")
}

// formatErrorChain renders err and its causes hierarchically.
func formatErrorChain(err error) string {
	var messages []string
	current := err

	for current != nil {
		if m, ok := current.(messager); ok {
			if msg := m.Message(); msg != "" {
				messages = append(messages, msg)
			}
			current = errors.Unwrap(current)
		} else {
			messages = append(messages, current.Error())
			break
		}
	}

	var formattedLines []string
	for i, msg := range messages {
		lines := strings.Split(msg, "\n")

		if i == 0 {
			formattedLines = append(formattedLines, "Error: "+lines[0])
			for _, line := range lines[1:] {
				formattedLines = append(formattedLines, "       "+line)
			}
			continue
		}

		if i == 1 {
			formattedLines = append(formattedLines, "", "  Caused by:")
		}
		formattedLines = append(formattedLines, "    → "+lines[0])
		for _, line := range lines[1:] {
			formattedLines = append(formattedLines, "      "+line)
		}
	}

	return strings.Join(formattedLines, "\n")
}

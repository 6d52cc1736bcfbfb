package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/press/internal/ui/output"
	"go.trai.ch/press/internal/ui/style"
)

const (
	// ComponentKey tags a record with the component that produced it.
	ComponentKey = "component"
	// ContinuedKey marks a record as a continuation line of a multi-line message.
	ContinuedKey = "continued"
)

// PrettyHandler is a custom slog.Handler that produces human-readable,
// colored output using the shared UI components.
//
// Records carrying a component attribute are rendered as "[component] message";
// continuation records replace the tag with a blank gutter of the same width.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		out:   output.New(w, output.Auto),
		level: levelVar,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var (
		component string
		continued bool
	)

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	collect := func(attr slog.Attr) bool {
		switch attr.Key {
		case ComponentKey:
			component = attr.Value.String()
		case ContinuedKey:
			continued = attr.Value.Bool()
		default:
			attrParts = append(attrParts, formatAttr(h.group, attr))
		}
		return true
	}
	for _, attr := range h.attrs {
		collect(attr)
	}
	r.Attrs(collect)

	msg := r.Message
	color := style.Muted
	switch r.Level {
	case slog.LevelWarn:
		color = style.Caution
		if component == "" {
			msg = style.CautionMark + " " + msg
		}
	case slog.LevelError:
		color = style.Failure
		if component == "" {
			msg = style.FailureMark + " " + msg
		}
	}

	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	line := output.Paint(h.out, msg, color)
	if component != "" {
		line = h.prefix(component, continued) + line
	}

	_, err := h.out.WriteString(line + "\n")
	return err
}

// prefix renders the component tag or the blank gutter that aligns continuation lines.
func (h *PrettyHandler) prefix(component string, continued bool) string {
	if continued {
		return strings.Repeat(" ", len(component)+2) + " "
	}
	return "[" + output.Paint(h.out, component, style.Component) + "] "
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group name.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}

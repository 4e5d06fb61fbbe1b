package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// Level markers shown in front of the message.
const (
	warnMark  = "!"
	errorMark = "✗"
	debugMark = "debug:"
)

// PrettyHandler is a custom slog.Handler that produces human-readable,
// colored output. Colors degrade automatically on dumb terminals and
// are disabled entirely when NO_COLOR is set.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided
// writer. Passing a *slog.LevelVar in opts keeps the handler's minimum
// level adjustable after construction.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   newOutput(w),
		level: level,
	}
}

// newOutput wraps w in a termenv output with the profile resolved from
// the environment. NO_COLOR forces plain ASCII output.
func newOutput(w io.Writer) *termenv.Output {
	profile := termenv.EnvColorProfile()
	if os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}

	return termenv.NewOutput(w,
		termenv.WithProfile(profile),
		termenv.WithTTY(true),
	)
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var msg string
	switch {
	case r.Level >= slog.LevelError:
		msg = errorMark + " " + r.Message
	case r.Level >= slog.LevelWarn:
		msg = warnMark + " " + r.Message
	case r.Level < slog.LevelInfo:
		msg = debugMark + " " + r.Message
	default:
		msg = r.Message
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})

	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	styled := h.out.String(msg)
	switch {
	case r.Level >= slog.LevelError:
		styled = styled.Foreground(termenv.ANSIRed)
	case r.Level >= slog.LevelWarn:
		styled = styled.Foreground(termenv.ANSIYellow)
	case r.Level < slog.LevelInfo:
		styled = styled.Faint()
	}

	_, err := h.out.WriteString(styled.String() + "\n")

	return err
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

// WithGroup returns a new Handler with the given group name appended to
// the group path. An empty name returns the handler unchanged.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	group := name
	if h.group != "" {
		group = h.group + "." + name
	}

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: group,
	}
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group path.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}

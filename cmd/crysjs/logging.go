package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// PrettyHandlerOptions configures PrettyHandler.
type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
}

// PrettyHandler writes one colorized line per record:
// "[15:04:05.000] DEBUG: message key=value".
type PrettyHandler struct {
	opts  PrettyHandlerOptions
	out   io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

func NewPrettyHandler(out io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{opts: opts, out: out, mu: &sync.Mutex{}}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.SlogOpts.Level != nil {
		minLevel = h.opts.SlogOpts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.BlueString(level)
	default:
		level = color.MagentaString(level)
	}

	fields := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		fields = append(fields, h.field(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.field(a))
		return true
	})

	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(color.HiBlackString("[%s] ", r.Time.Format("15:04:05.000")))
	}
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(color.CyanString(r.Message))
	if len(fields) > 0 {
		b.WriteString(" ")
		b.WriteString(color.WhiteString(strings.Join(fields, " ")))
	}
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *PrettyHandler) field(a slog.Attr) string {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return fmt.Sprintf("%s=%v", key, a.Value.Resolve())
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// newLogger logs warnings and errors, plus debug events when verbose.
func newLogger(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewPrettyHandler(out, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	}))
}

package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
)

type ctxKey struct{}

func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok || l == nil {
		return slog.Default()
	}
	return l
}

const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatConsole = "console"
)

// New builds a logger writing to w. Unknown levels fall back to info,
// unknown formats to console.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	switch strings.ToLower(format) {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts))
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts))
	default:
		opts.ReplaceAttr = colorizeLevel
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func colorizeLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	switch {
	case level >= slog.LevelError:
		a.Value = slog.StringValue(color.RedString(level.String()))
	case level >= slog.LevelWarn:
		a.Value = slog.StringValue(color.YellowString(level.String()))
	case level >= slog.LevelInfo:
		a.Value = slog.StringValue(color.GreenString(level.String()))
	default:
		a.Value = slog.StringValue(color.CyanString(level.String()))
	}
	return a
}

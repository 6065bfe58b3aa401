package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	log      *slog.Logger
	name     string
	file     string
	function string
}

// Setup installs the process-wide slog handler every Logger writes through.
func Setup(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func SetupDefault(level, format string) {
	Setup(os.Stderr, level, format)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func New(name string) Logger {
	return Logger{name: name}
}

func (l Logger) File(file string) Logger {
	l.file = file
	return l
}

func (l Logger) Function(function string) Logger {
	l.function = function
	return l
}

func (l Logger) With(args ...any) Logger {
	l.log = l.base().With(args...)
	return l
}

func (l Logger) base() *slog.Logger {
	if l.log != nil {
		return l.log
	}
	return slog.Default()
}

func (l Logger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+6)
	out = append(out, "package", l.name)
	if l.file != "" {
		out = append(out, "file", l.file)
	}
	if l.function != "" {
		out = append(out, "function", l.function)
	}
	return append(out, args...)
}

func (l Logger) Debug(msg string, args ...any) {
	l.base().Debug(msg, l.attrs(args)...)
}

func (l Logger) Info(msg string, args ...any) {
	l.base().Info(msg, l.attrs(args)...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.base().Warn(msg, l.attrs(args)...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.base().Error(msg, l.attrs(append([]any{"error", err}, args...))...)
}

func (l Logger) ErMsg(msg string, args ...any) {
	l.base().Error(msg, l.attrs(args)...)
}

// Err logs err and returns it wrapped with msg, keeping it reachable through
// errors.Is and errors.As.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.ErMsg(msg, args...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}

package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Logger owns the zerolog logger used by the process and the optional log
// file behind it.
type Logger struct {
	zlog    zerolog.Logger
	level   zerolog.Level
	file    *os.File
	writers []io.Writer
}

type Option func(*Logger) error

// WithLevel sets the minimum level by name ("debug", "info", "warn", ...)
func WithLevel(name string) Option {
	return func(l *Logger) error {
		level, err := ParseLevel(name)
		if err != nil {
			return err
		}
		l.level = level
		return nil
	}
}

// WithWriter adds a colorless console writer on w.
func WithWriter(w io.Writer) Option {
	return func(l *Logger) error {
		l.writers = append(l.writers, zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		return nil
	}
}

// WithFile appends log output to the file at path. An empty path is a no-op.
func WithFile(path string) Option {
	return func(l *Logger) error {
		if path == "" {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.Wrap(err, "failed to create log directory")
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Wrap(err, "failed to open log file")
		}
		l.file = f
		l.writers = append(l.writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		return nil
	}
}

// New builds a logger. Without a WithWriter option it writes to stderr.
func New(opts ...Option) (*Logger, error) {
	l := &Logger{level: zerolog.WarnLevel}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			l.Close()
			return nil, errors.Wrap(err, "failed to apply logger option")
		}
	}

	writers := l.writers
	if len(writers) == 0 || (len(writers) == 1 && l.file != nil) {
		writers = append([]io.Writer{zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}}, writers...)
	}

	l.zlog = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(l.level).
		With().Timestamp().Logger()
	return l, nil
}

// Zerolog returns the underlying logger for handing to components.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Level returns the effective minimum level.
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// ParseLevel accepts zerolog level names case-insensitively.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, errors.Errorf("unknown log level %q", name)
	}
	return level, nil
}

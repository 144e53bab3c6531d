package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with printf-style level methods
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a logger writing to stderr.
// In development the output is human readable, otherwise one JSON object per line.
func NewLogger(level string, development bool) *Logger {
	var out io.Writer = os.Stderr
	if development {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return NewLoggerTo(out, level)
}

// NewLoggerTo creates a logger writing to w
func NewLoggerTo(w io.Writer, level string) *Logger {
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(msg, args...))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(msg, args...))
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(msg, args...))
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(msg, args...))
}

// Request logs one served HTTP request
func (l *Logger) Request(method, path string, status int, elapsed time.Duration, requestID string) {
	l.zl.Info().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("elapsed", elapsed).
		Str("request_id", requestID).
		Msg("request")
}

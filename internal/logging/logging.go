package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

// Options controls the output of the package-level logger.
type Options struct {
	// Level overrides LOG_LEVEL/DEBUG when non-empty.
	Level string
	// Format is "console" (human readable, default) or "json".
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	mu           sync.RWMutex
	currentLevel LogLevel
	levelOnce    sync.Once
	base         = newLogger(os.Stderr, "console")
)

// initLevel initializes the log level from environment variables
func initLevel() {
	levelOnce.Do(func() {
		// DEBUG wins over LOG_LEVEL
		if debug := os.Getenv("DEBUG"); debug != "" {
			switch strings.ToLower(debug) {
			case "1", "true", "yes", "on":
				setLevel(LevelDebug)
				return
			}
		}
		setLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
	})
}

// ParseLevel converts a level name into a LogLevel. Unknown names map to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func setLevel(l LogLevel) {
	mu.Lock()
	currentLevel = l
	mu.Unlock()
	zerolog.SetGlobalLevel(l.zerolog())
}

func newLogger(w io.Writer, format string) zerolog.Logger {
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: true}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Configure replaces the output and, when opts.Level is set, the level of the
// package-level logger. It is safe to call more than once.
func Configure(opts Options) {
	initLevel()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	l := newLogger(out, strings.ToLower(opts.Format))

	mu.Lock()
	base = l
	mu.Unlock()

	if opts.Level != "" {
		setLevel(ParseLevel(opts.Level))
	}
}

// Base returns the configured zerolog logger.
func Base() zerolog.Logger {
	initLevel()
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithRequestID returns a context carrying a logger annotated with requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := Base().With().Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}

// FromContext returns the logger stored in ctx, or the base logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	l := Base()
	return &l
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	initLevel()
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	l := Base()
	l.Debug().Msgf(format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	l := Base()
	l.Info().Msgf(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	l := Base()
	l.Warn().Msgf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	l := Base()
	l.Error().Msgf(format, args...)
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	l := Base()
	l.Fatal().Msgf(format, args...)
}

// Printf logs a message regardless of the configured level.
func Printf(format string, args ...interface{}) {
	l := Base()
	l.Log().Msgf(format, args...)
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

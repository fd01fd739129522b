// Package debuglog is the process-wide diagnostic log. It stays silent until
// Setup is called with a level other than LevelOff, because the terminal
// belongs to the interactive UI.
package debuglog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a level name; unknown names mean LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "TRACE":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF", "NONE":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

var (
	mu           sync.RWMutex
	currentLevel = LevelOff
	logger       = zerolog.Nop()
	logFile      *os.File
)

// DefaultPath is ~/.wallr/wallr.log.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".wallr", "wallr.log"), nil
}

// Setup configures the logging system with the specified level and optional
// file path. If filePath is empty, DefaultPath is used.
func Setup(level LogLevel, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	currentLevel = level
	if level == LevelOff {
		logger = zerolog.Nop()
		return nil
	}

	var logPath string
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	} else {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		logPath = p
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	logFile = f
	logger = newLogger(f, level)
	return nil
}

// SetOutput sends log lines to w instead of a file. Used by tests and by
// the CLI's --verbose flag.
func SetOutput(w io.Writer, level LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	currentLevel = level
	logger = newLogger(w, level)
}

func newLogger(w io.Writer, level LogLevel) zerolog.Logger {
	return zerolog.New(w).
		Level(level.zerolog()).
		With().
		Timestamp().
		Str("app", "wallr").
		Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	logger = logger.Level(level.zerolog())
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Close closes the log file if open and silences the logger.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeLocked()
	logger = zerolog.Nop()
	currentLevel = LevelOff
	return err
}

func closeLocked() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugf(format string, args ...any) {
	l := current()
	l.Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	l := current()
	l.Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	l := current()
	l.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	l := current()
	l.Error().Msgf(format, args...)
}

// FieldLogger attaches structured fields to every message.
type FieldLogger struct {
	fields map[string]any
}

// WithFields returns a new logger with the specified fields
func WithFields(fields map[string]any) *FieldLogger {
	return &FieldLogger{fields: fields}
}

// With returns a copy with one more field.
func (fl *FieldLogger) With(key string, value any) *FieldLogger {
	fields := make(map[string]any, len(fl.fields)+1)
	for k, v := range fl.fields {
		fields[k] = v
	}
	fields[key] = value
	return &FieldLogger{fields: fields}
}

func (fl *FieldLogger) event(e *zerolog.Event) *zerolog.Event {
	return e.Fields(fl.fields)
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	l := current()
	fl.event(l.Debug()).Msgf(format, args...)
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	l := current()
	fl.event(l.Info()).Msgf(format, args...)
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	l := current()
	fl.event(l.Warn()).Msgf(format, args...)
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	l := current()
	fl.event(l.Error()).Msgf(format, args...)
}

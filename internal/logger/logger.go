package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

var logFile *os.File

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetReportTimestamp(true)

	// Set log level from environment variable
	SetLevel(os.Getenv("LOG_LEVEL"))
}

// SetLevel parses a level name and applies it. Unknown names fall back to INFO.
func SetLevel(level string) {
	Logger.SetLevel(ParseLevel(level))
}

// ParseLevel maps DEBUG/INFO/WARN/ERROR/FATAL to a log level.
func ParseLevel(level string) log.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return log.DebugLevel
	case "INFO":
		return log.InfoLevel
	case "WARN", "WARNING":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	case "FATAL":
		return log.FatalLevel
	default:
		// Default to INFO level if not specified or invalid
		return log.InfoLevel
	}
}

// Component returns a child logger tagged with the component name. Engine
// packages take one of these as their diagnostic sink.
func Component(name string) *log.Logger {
	return Logger.WithPrefix(name)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// EnableFileLogging mirrors log output into padwatch.log under the user's state
// directory. Calling it again is a no-op.
func EnableFileLogging() (string, error) {
	if logFile != nil {
		return logFile.Name(), nil
	}

	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	dir = filepath.Join(dir, "padwatch")

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, "padwatch.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	Logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return path, nil
}

// Close flushes and closes the log file, if any.
func Close() {
	if logFile == nil {
		return
	}
	Logger.SetOutput(os.Stderr)
	logFile.Close()
	logFile = nil
}

// Convenience functions for common operations
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

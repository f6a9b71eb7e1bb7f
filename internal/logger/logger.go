package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents a log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is a leveled printf-style logger backed by zap.
// The TUI owns stdout, so output is discarded unless a file or writer is set.
type Logger struct {
	mu    sync.Mutex
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
	file  *os.File
}

var (
	// Default is the default logger instance
	Default *Logger
)

func init() {
	Default = New()
}

// New creates a new logger based on ONBOARD_LOG_LEVEL and ONBOARD_LOG_FILE.
func New() *Logger {
	l := &Logger{
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
	l.setWriter(io.Discard)

	if levelStr := os.Getenv("ONBOARD_LOG_LEVEL"); levelStr != "" {
		if level, err := ParseLevel(levelStr); err == nil {
			l.level.SetLevel(level.zapLevel())
		}
	}

	if logFile := os.Getenv("ONBOARD_LOG_FILE"); logFile != "" {
		_ = l.OpenFile(logFile)
	}

	return l
}

// encoderConfig produces plain console lines: timestamp, level, caller, message.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// setWriter rebuilds the zap core around w. Caller must hold mu or own l exclusively.
func (l *Logger) setWriter(w io.Writer) {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(zapcore.Lock(zapcore.AddSync(w))),
		l.level,
	)
	l.sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()
}

// OpenFile redirects output to the given file, appending to it.
func (l *Logger) OpenFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
	}
	l.file = f
	l.setWriter(f)
	return nil
}

// Close flushes buffered entries and closes any open file handle.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.sugar.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.setWriter(io.Discard)
		return err
	}
	return nil
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l.level.Enabled(level.zapLevel())
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setWriter(w)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LevelError, format, v...)
}

func (l *Logger) log(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	sugar := l.sugar
	l.mu.Unlock()

	switch level {
	case LevelDebug:
		sugar.Debugf(format, v...)
	case LevelInfo:
		sugar.Infof(format, v...)
	case LevelWarn:
		sugar.Warnf(format, v...)
	case LevelError:
		sugar.Errorf(format, v...)
	}
}

// Package-level functions that use the default logger

// Debug logs a debug message using the default logger
func Debug(format string, v ...interface{}) {
	Default.Debug(format, v...)
}

// Info logs an info message using the default logger
func Info(format string, v ...interface{}) {
	Default.Info(format, v...)
}

// Warn logs a warning message using the default logger
func Warn(format string, v ...interface{}) {
	Default.Warn(format, v...)
}

// Error logs an error message using the default logger
func Error(format string, v ...interface{}) {
	Default.Error(format, v...)
}

// Configure applies a level string and optional log file to the default logger.
// An empty level keeps the current level.
func Configure(level, file string) error {
	if level != "" {
		lvl, err := ParseLevel(level)
		if err != nil {
			return err
		}
		Default.SetLevel(lvl)
	}
	if file != "" {
		return Default.OpenFile(file)
	}
	return nil
}

// Close closes the default logger
func Close() error {
	return Default.Close()
}

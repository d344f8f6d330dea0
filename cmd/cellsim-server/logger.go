package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/daniacca/metabocell/internal/cellular"
)

// LogLevel orders log records by severity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelTags = [...]string{
	LogLevelDebug: "DEBUG",
	LogLevelInfo:  "INFO",
	LogLevelWarn:  "WARN",
	LogLevelError: "ERROR",
}

func (l LogLevel) String() string {
	if l < LogLevelDebug || l > LogLevelError {
		return "unknown"
	}
	return strings.ToLower(levelTags[l])
}

// ParseLogLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// Logger writes leveled records tagged with the component that produced
// them, e.g. "[INFO] component=tissue Tissue created: ...". It is handed to
// the cellular package as-is.
type Logger struct {
	level     LogLevel
	out       *log.Logger
	component string
}

var _ cellular.Logger = (*Logger)(nil)

// NewLogger logs to stderr. An unknown level falls back to info and the
// fallback is reported once.
func NewLogger(level string) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo logs to w.
func NewLoggerTo(w io.Writer, level string) *Logger {
	parsed, err := ParseLogLevel(level)
	l := &Logger{
		level: parsed,
		out:   log.New(w, "", log.LstdFlags|log.Lmicroseconds),
	}
	if err != nil {
		l.Warnf("%v, using %s", err, parsed)
	}
	return l
}

// With returns a logger sharing the output and level that tags every record
// with component.
func (l *Logger) With(component string) *Logger {
	return &Logger{level: l.level, out: l.out, component: component}
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.level
}

func (l *Logger) logf(level LogLevel, format string, v ...any) {
	if !l.Enabled(level) {
		return
	}
	var b strings.Builder
	b.WriteString("[" + levelTags[level] + "] ")
	if l.component != "" {
		b.WriteString("component=" + l.component + " ")
	}
	fmt.Fprintf(&b, format, v...)
	l.out.Print(b.String())
}

func (l *Logger) Debugf(format string, v ...any) { l.logf(LogLevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LogLevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LogLevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logf(LogLevelError, format, v...) }

// Fatalf logs at error level regardless of the configured level and exits.
func (l *Logger) Fatalf(format string, v ...any) {
	l.out.Fatalf("[FATAL] "+format, v...)
}

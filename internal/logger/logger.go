// Package logger is the leveled logging interface the engine and render loop
// write through. Output goes to the standard library logger, which the
// dashboard points at a file or nowhere while it owns the terminal.
package logger

import (
	"fmt"
	"log"
	"os"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "LITEMON_DEBUG"

// Level is the severity of a message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// tag is printed between the prefix and the message.
func (l Level) tag() string {
	switch l {
	case LevelWarn:
		return "WARN: "
	case LevelError:
		return "ERROR: "
	}
	return ""
}

// Logger takes printf-style messages at four levels.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// leveled adapts a single sink function to Logger.
type leveled func(level Level, format string, args ...interface{})

func (f leveled) Debug(format string, args ...interface{}) { f(LevelDebug, format, args...) }
func (f leveled) Info(format string, args ...interface{})  { f(LevelInfo, format, args...) }
func (f leveled) Warn(format string, args ...interface{})  { f(LevelWarn, format, args...) }
func (f leveled) Error(format string, args ...interface{}) { f(LevelError, format, args...) }

// NewEnvLogger returns a logger that writes "<prefix> <message>" through the
// standard logger. Debug messages are dropped unless LITEMON_DEBUG is set at
// the time of the call.
func NewEnvLogger(prefix string) Logger {
	return leveled(func(level Level, format string, args ...interface{}) {
		if level == LevelDebug && os.Getenv(DebugEnv) == "" {
			return
		}
		log.Printf("%s %s%s", prefix, level.tag(), fmt.Sprintf(format, args...))
	})
}

// Noop returns a logger that discards everything.
func Noop() Logger {
	return leveled(func(Level, string, ...interface{}) {})
}

// LogMessage is one message captured by a BufferLogger.
type LogMessage struct {
	Level   Level
	Message string
}

// BufferLogger records messages in memory for tests.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger returns an empty BufferLogger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add(LevelDebug, format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add(LevelInfo, format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add(LevelWarn, format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add(LevelError, format, args...) }

func (l *BufferLogger) add(level Level, format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Count returns how many messages were logged at level.
func (l *BufferLogger) Count(level Level) int {
	n := 0
	for _, m := range l.Messages {
		if m.Level == level {
			n++
		}
	}
	return n
}

// HasLevel reports whether anything was logged at level.
func (l *BufferLogger) HasLevel(level Level) bool {
	return l.Count(level) > 0
}

// Clear drops the captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}

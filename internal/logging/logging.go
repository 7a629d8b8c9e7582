// Package logging provides the leveled, prefixed logger used across the
// main loop and its control/audio/render subsystems. It wraps the
// standard library's log.Logger the same way the teacher's emulator
// packages do their own diagnostics (see audio_chip.go's log.Printf
// calls for invalid register writes) rather than reaching for a
// structured-logging framework absent from the retrieved corpus.
package logging

import (
	"io"
	"log"
	"os"
)

// Level orders log severity; messages below a Logger's configured
// Level are dropped before formatting.
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

// Logger is a minimal leveled wrapper around *log.Logger. The zero value
// is not usable; construct with New.
type Logger struct {
	level  Level
	prefix string
	std    *log.Logger
}

// New returns a Logger writing to w (os.Stderr if w is nil) at minLevel,
// tagging every line with prefix (e.g. "midi", "render").
func New(w io.Writer, prefix string, minLevel Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		level:  minLevel,
		prefix: prefix,
		std:    log.New(w, "", log.LstdFlags|log.Lmicroseconds),
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	l.std.Printf("["+level.String()+"] "+l.prefix+": "+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

// With returns a child Logger sharing level and output but nesting
// prefix under the parent's (e.g. "control" -> "control.midi").
func (l *Logger) With(subPrefix string) *Logger {
	return &Logger{level: l.level, prefix: l.prefix + "." + subPrefix, std: l.std}
}

// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package log provides the small leveled-logging surface the converter
// and its CLI depend on. It is modeled on the logging package the
// teacher's own File type depends on (Logger/Helper/NewStdLogger/
// NewFilter/FilterLevel), kept minimal because the converter only ever
// logs per-class warnings and errors.
package log

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Level is a logging severity.
type Level int8

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

// Logger is the minimal sink every log call eventually reaches.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes to an io.Writer via the standard library logger.
type stdLogger struct {
	mu  sync.Mutex
	std *log.Logger
}

// NewStdLogger returns a Logger that writes timestamped lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{std: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.std.Println(append([]interface{}{level.String()}, keyvals...)...)
	return nil
}

// filter wraps a Logger and drops entries below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// FilterOption configures a filter returned by NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a filtered logger passes through.
func FilterLevel(min Level) FilterOption {
	return func(f *filter) { f.min = min }
}

// NewFilter wraps next, applying opts (currently just a minimum level).
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, min: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper adds the conventional Debugf/Infof/Warnf/Errorf convenience
// methods over a bare Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) logf(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, fmt.Sprintf(format, args...))
}

func (h *Helper) Debugf(format string, args ...interface{}) { h.logf(LevelDebug, format, args...) }
func (h *Helper) Infof(format string, args ...interface{})  { h.logf(LevelInfo, format, args...) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.logf(LevelWarn, format, args...) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.logf(LevelError, format, args...) }

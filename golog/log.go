// Package golog is a small leveled logger, recreated in the shape of the
// github.com/saferwall/pe/log helper that the rest of this module is
// patterned after: a minimal Logger interface, a level filter, and a Helper
// that adds Printf-style convenience methods on top.
package golog

import (
	"fmt"
	"io"
	"log"
	"time"
)

// Level is a logging severity.
type Level uint8

// Recognized levels, lowest severity first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the canonical name of a level.
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

// Logger is the minimal sink every log call is routed through.
type Logger interface {
	Log(level Level, msg string) error
}

// stdLogger writes timestamped lines to an io.Writer.
type stdLogger struct {
	out *log.Logger
}

// NewStdLogger returns a Logger that writes to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{out: log.New(w, "", 0)}
}

func (s *stdLogger) Log(level Level, msg string) error {
	s.out.Printf("%s [%s] %s", time.Now().Format(time.RFC3339), level, msg)
	return nil
}

// filter wraps a Logger and drops any record below its configured level.
type filter struct {
	next     Logger
	minLevel Level
}

// FilterOption configures a filter constructed by NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level that passes through the filter.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.minLevel = level }
}

// NewFilter wraps next with level filtering.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, minLevel: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, msg string) error {
	if level < f.minLevel {
		return nil
	}
	return f.next.Log(level, msg)
}

// Helper adds Printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in a Helper.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }

// Infof logs at info level.
func (h *Helper) Infof(format string, args ...interface{}) { h.log(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (h *Helper) Warnf(format string, args ...interface{}) { h.log(LevelWarn, format, args...) }

// Errorf logs at error level.
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }

// Warn logs a plain message at warn level.
func (h *Helper) Warn(args ...interface{}) { h.log(LevelWarn, "%s", fmt.Sprint(args...)) }

// Debug logs a plain message at debug level.
func (h *Helper) Debug(args ...interface{}) { h.log(LevelDebug, "%s", fmt.Sprint(args...)) }

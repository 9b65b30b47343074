package golog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestStdLoggerWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(&buf)
	if err := logger.Log(LevelInfo, "hello"); err != nil {
		t.Fatalf("Log returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected output to contain %q, got %q", "hello", buf.String())
	}
	if !strings.Contains(buf.String(), "[INFO]") {
		t.Errorf("expected output to contain level tag, got %q", buf.String())
	}
}

func TestFilterDropsBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFilter(NewStdLogger(&buf), FilterLevel(LevelWarn))

	logger.Log(LevelInfo, "should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info message to be filtered, got %q", buf.String())
	}

	logger.Log(LevelWarn, "should pass")
	if !strings.Contains(buf.String(), "should pass") {
		t.Errorf("expected warn message to pass the filter, got %q", buf.String())
	}
}

func TestHelperNilIsSafe(t *testing.T) {
	var h *Helper
	h.Infof("noop %d", 1) // must not panic
}

func TestHelperFormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	h := NewHelper(NewStdLogger(&buf))
	h.Errorf("failed: %s (%d)", "bad thing", 42)

	want := "failed: bad thing (42)"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("expected output to contain %q, got %q", want, buf.String())
	}
}

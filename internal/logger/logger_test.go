package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"DEBUG", DEBUG},
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warn", WARN},
		{"WARNING", WARN},
		{"ERROR", ERROR},
		{"", INFO},
		{"nonsense", INFO},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: WARN, Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("hidden")
	l.Warn("shown", F("task", 7))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("INFO entry written at WARN level: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "shown | task=7") {
		t.Errorf("missing WARN entry: %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("caller should point at the test file: %q", out)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: DEBUG, Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.WithFields(F("user", 3)).Debug("scoped", F("list", 9))

	if !strings.Contains(buf.String(), "user=3 list=9") {
		t.Errorf("preset fields missing: %q", buf.String())
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planner.log")
	l, err := New(Config{Level: INFO, FilePath: path, MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file content: got %q", string(data))
	}
}

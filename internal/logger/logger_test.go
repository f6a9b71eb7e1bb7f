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
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"ERROR", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for input %q", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for input %q: %v", tt.input, err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("expected %v, got %v for input %q", tt.expected, got, tt.input)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("debug message should not be logged at WARN level")
	}
	if strings.Contains(output, "info message") {
		t.Error("info message should not be logged at WARN level")
	}

	l.Warn("warn message")
	l.Error("error message")

	output = buf.String()
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should be logged at WARN level")
	}
	if !strings.Contains(output, "error message") {
		t.Error("error message should be logged at WARN level")
	}
}

func TestLogger_LogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelDebug)

	l.Info("submitted step %d for %s", 2, "abc")

	output := buf.String()
	if !strings.Contains(output, "INFO") {
		t.Errorf("log output should contain level, got %q", output)
	}
	if !strings.Contains(output, "submitted step 2 for abc") {
		t.Errorf("log output should contain formatted message, got %q", output)
	}
}

func TestLogger_EnvVarLogLevel(t *testing.T) {
	t.Setenv("ONBOARD_LOG_LEVEL", "debug")

	l := New()
	if !l.Enabled(LevelDebug) {
		t.Error("expected debug level from env var")
	}
}

func TestLogger_DefaultDiscards(t *testing.T) {
	t.Setenv("ONBOARD_LOG_LEVEL", "")
	t.Setenv("ONBOARD_LOG_FILE", "")

	l := New()
	if l.Enabled(LevelDebug) {
		t.Error("default level should be info")
	}
	l.Info("nowhere")
}

func TestLogger_EnvVarLogFile(t *testing.T) {
	tmpPath := filepath.Join(t.TempDir(), "onboard.log")
	t.Setenv("ONBOARD_LOG_FILE", tmpPath)

	l := New()
	l.Info("test message")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	content, err := os.ReadFile(tmpPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "test message") {
		t.Error("log file should contain the test message")
	}
}

func TestConfigure(t *testing.T) {
	original := Default
	t.Cleanup(func() { Default = original })
	Default = New()

	tmpPath := filepath.Join(t.TempDir(), "configured.log")
	if err := Configure("error", tmpPath); err != nil {
		t.Fatalf("configure: %v", err)
	}
	Warn("hidden")
	Error("shown")
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	content, err := os.ReadFile(tmpPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "hidden") {
		t.Error("warn should be filtered at error level")
	}
	if !strings.Contains(string(content), "shown") {
		t.Error("error should be written")
	}

	if err := Configure("loud", ""); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)
	t.Cleanup(func() {
		Default.SetLevel(LevelInfo)
		Default.SetOutput(&bytes.Buffer{})
	})

	Debug("debug %s", "test")
	Info("info %s", "test")
	Warn("warn %s", "test")
	Error("error %s", "test")

	output := buf.String()
	for _, want := range []string{"debug test", "info test", "warn test", "error test"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

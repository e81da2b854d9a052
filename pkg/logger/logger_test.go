package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"}, // Invalid level
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   TraceLevel,
		"debug":   DebugLevel,
		"info":    InfoLevel,
		"warn":    WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
		"WARN":    WarnLevel,
		"warning": WarnLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerInitialization(t *testing.T) {
	config := Config{
		Level:     InfoLevel,
		Component: "test",
	}

	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	if current() == nil {
		t.Fatal("Initialize() did not set defaultLogger")
	}

	if current().config.Component != "test" {
		t.Errorf("Initialize() did not set config correctly, got component: %s", current().config.Component)
	}
}

func TestLoggerPrettyFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, Component: "test"}, &buf)

	l.Log(InfoLevel, "test message", String("key", "value"))
	_ = l.Sync()

	out := buf.String()
	for _, want := range []string{"INFO", "test", "test message", `"key": "value"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("expected no color codes, got %q", out)
	}
}

func TestLoggerColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, UseColor: true}, &buf)
	l.Log(WarnLevel, "careful")
	if !strings.Contains(buf.String(), "\033[33mWARN\033[0m") {
		t.Errorf("expected colored WARN, got %q", buf.String())
	}
}

func TestLoggerJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, JSON: true, Component: "test", UseColor: true}, &buf)

	l.Log(ErrorLevel, "boom", Err(errors.New("bad thing")), Int("count", 3))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal JSON log: %v (%q)", err, buf.String())
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["message"] != "boom" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["component"] != "test" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["error"] != "bad thing" {
		t.Errorf("error = %v", entry["error"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("count = %v", entry["count"])
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WarnLevel}, &buf)

	l.Log(DebugLevel, "debug message")
	l.Log(InfoLevel, "info message")
	if buf.Len() != 0 {
		t.Errorf("expected no output below WARN, got %q", buf.String())
	}

	l.Log(WarnLevel, "warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: TraceLevel}, &buf)
	l.Log(TraceLevel, "trace message")
	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE entry, got %q", buf.String())
	}
}

func TestNoOpField(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, JSON: true, NoOp: true}, &buf)
	l.Log(InfoLevel, "dry")
	if !strings.Contains(buf.String(), `"no_op":true`) {
		t.Errorf("expected no_op field, got %q", buf.String())
	}
}

func TestConvenienceFunctions(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: TraceLevel}); err != nil {
		t.Fatal(err)
	}
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	Trace("t")
	Debug("d")
	Info("i")
	Warn("w", Strings("versions", []string{"7.0.X"}))
	Error("e", Bool("fatal", false))

	out := buf.String()
	for _, want := range []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "7.0.X"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mindbox-cloud/mindbox-config/internal/ports"
)

func TestNopLogger_Methods(t *testing.T) {
	logger := NewNopLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message", ports.Op("copy icon"))
	logger.Error(ctx, "error message")

	if logger.With(ports.F("key", "value")) != logger {
		t.Error("NopLogger.With should return itself")
	}

	logger.SetLevel(ports.LevelDebug)
	if logger.Level() != ports.LevelDebug {
		t.Errorf("after SetLevel, level = %v, want %v", logger.Level(), ports.LevelDebug)
	}
}

func newTextLogger(buf *bytes.Buffer, opts ...ConsoleLoggerOption) *ConsoleLogger {
	base := []ConsoleLoggerOption{
		WithOutput(buf),
		WithLevel(ports.LevelDebug),
		WithTimestamp(false),
		WithLevelLabel(false),
	}
	return NewConsoleLogger(append(base, opts...)...)
}

func TestConsoleLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf, WithLevelLabel(true))

	logger.Info(context.Background(), "update Podfile completed successfully")

	output := buf.String()
	if !strings.Contains(output, "[INFO]") {
		t.Errorf("output should contain [INFO], got %q", output)
	}
	if !strings.Contains(output, "[Mindbox] update Podfile completed successfully") {
		t.Errorf("output should contain prefixed message, got %q", output)
	}
}

func TestConsoleLogger_TextOutput_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf, WithPrefix(""))

	logger.Info(context.Background(), "test", ports.F("key1", "value1"), ports.F("key2", 42))

	if got := buf.String(); got != "test key1=value1 key2=42\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_WarningWithOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)

	logger.Warn(context.Background(), "source icon not found", ports.Op("copy small icon"), ports.F("path", "assets/icon.png"))

	want := "[Mindbox] Warning in copy small icon: source icon not found path=assets/icon.png\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConsoleLogger_ErrorWithOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)

	logger.Error(context.Background(), "permission denied", ports.Op("write strings.xml"))

	want := "[Mindbox] Failed to write strings.xml: permission denied\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConsoleLogger_InfoKeepsOperationField(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)

	logger.Info(context.Background(), "done", ports.Op("update Podfile"))

	if !strings.Contains(buf.String(), "operation=update Podfile") {
		t.Errorf("info lines keep the operation as a field, got %q", buf.String())
	}
}

func TestConsoleLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(
		WithOutput(&buf),
		WithJSONFormat(true),
		WithTimestamp(false),
	)

	logger.Warn(context.Background(), "anchor not found",
		ports.Op("patch AppDelegate"),
		ports.F("error", errors.New("no class body")))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["msg"] != "anchor not found" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["operation"] != "patch AppDelegate" {
		t.Errorf("operation = %v", entry["operation"])
	}
	if entry["error"] != "no class body" {
		t.Errorf("error values should be rendered as strings, got %v", entry["error"])
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf, WithLevel(ports.LevelWarn))
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	if buf.Len() > 0 {
		t.Errorf("Debug and Info should be filtered, got %q", buf.String())
	}

	logger.Warn(ctx, "warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("Warn should not be filtered, got %q", buf.String())
	}
}

func TestConsoleLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf)

	derived := logger.With(ports.F("run_id", "abc"))
	derived.Info(context.Background(), "message", ports.F("extra", "field"))
	logger.Info(context.Background(), "original")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "run_id=abc") || !strings.Contains(lines[0], "extra=field") {
		t.Errorf("derived logger should carry base and call fields, got %q", lines[0])
	}
	if strings.Contains(lines[1], "run_id") {
		t.Errorf("original logger should not have derived field, got %q", lines[1])
	}
}

func TestConsoleLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf, WithLevel(ports.LevelError))
	ctx := context.Background()

	logger.Info(ctx, "info message")
	if buf.Len() > 0 {
		t.Error("Info should be filtered at Error level")
	}

	logger.SetLevel(ports.LevelDebug)
	logger.Info(ctx, "info message")
	if !strings.Contains(buf.String(), "info message") {
		t.Error("Info should pass through at Debug level")
	}
}

func TestConsoleLogger_Color(t *testing.T) {
	var buf bytes.Buffer
	logger := newTextLogger(&buf, WithLevelLabel(true), WithColor(true))

	logger.Warn(context.Background(), "careful")

	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("colored output should still contain the label, got %q", buf.String())
	}
}

package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"subpipe/internal/logging"
)

func TestConsoleHandlerLiftsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	scoped := logging.NewComponentLogger(logger, "transcribe")
	scoped.Info("stage complete", logging.String("video", "movie.mp4"), logging.Int("attempt", 1))

	line := buf.String()
	if !strings.Contains(line, "INFO transcribe: stage complete") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "video=movie.mp4") || !strings.Contains(line, "attempt=1") {
		t.Fatalf("missing attrs: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("rename failed", logging.String("path", "/tmp/My Movie.srt"))
	if !strings.Contains(buf.String(), `path="/tmp/My Movie.srt"`) {
		t.Fatalf("expected quoted path, got %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be suppressed: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn should be emitted: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", logging.String("k", "v"))
	out := buf.String()
	if !strings.Contains(out, `"level":"info"`) || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("unexpected json output: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevel(t *testing.T) {
	if logging.ParseLevel("debug") != slog.LevelDebug {
		t.Fatal("debug")
	}
	if logging.ParseLevel("") != slog.LevelInfo {
		t.Fatal("default")
	}
	if logging.ParseLevel("ERROR") != slog.LevelError {
		t.Fatal("error")
	}
}

package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docprep/internal/config"
	"docprep/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	logger, _, err := logging.NewFromConfig(&cfg, &buf, "")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")
	logger.Info("info message", logging.String("path", "pics/a.png"))

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Fatalf("expected debug line to be filtered at info level, got %q", out)
	}
	if !strings.Contains(out, "INFO  info message path=pics/a.png") {
		t.Fatalf("unexpected console output %q", out)
	}
}

func TestNewFromConfigLevelOverride(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	logger, _, err := logging.NewFromConfig(&cfg, &buf, "debug")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Fatalf("expected debug output with override, got %q", buf.String())
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerRendersComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "cleanup").Info("moved asset", logging.String("dst", "unused pics/a.png"))

	out := buf.String()
	if !strings.Contains(out, "[cleanup] moved asset") {
		t.Fatalf("expected component prefix, got %q", out)
	}
	if !strings.Contains(out, `dst="unused pics/a.png"`) {
		t.Fatalf("expected quoted value, got %q", out)
	}
}

func TestConsoleLoggerTagsDryRun(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "run-123")
	logging.WithContext(ctx, logger).Info("would move unused asset",
		logging.Bool(logging.FieldDryRun, true),
		logging.String(logging.FieldEventType, "asset_move_planned"),
		logging.Bytes("size", 2048),
	)

	out := buf.String()
	if !strings.Contains(out, "DRY-RUN would move unused asset size=\"2.0 KiB\"") {
		t.Fatalf("expected dry-run tag, got %q", out)
	}
	for _, hidden := range []string{"run-123", "event_type", "dry_run="} {
		if strings.Contains(out, hidden) {
			t.Fatalf("console line should not contain %q: %q", hidden, out)
		}
	}
}

func TestNewJSONLoggerCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "run-123")
	logging.WithContext(ctx, logger).Info("json message", logging.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if record["run_id"] != "run-123" {
		t.Fatalf("run_id = %v, want run-123", record["run_id"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v, want info", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesOutputFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "docprep.log")
	var buf bytes.Buffer
	logger, closeLog, err := logging.New(logging.Options{Writer: &buf, OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("to file")
	if err := closeLog(); err != nil {
		t.Fatalf("close log files: %v", err)
	}
	if err := closeLog(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "to file") {
		t.Fatalf("expected line in log file, got %q", content)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := logging.FormatBytes(1536); got != "1.5 KiB" {
		t.Fatalf("FormatBytes(1536) = %q", got)
	}
	if got := logging.FormatBytes(-1); got != "0 B" {
		t.Fatalf("FormatBytes(-1) = %q", got)
	}
}

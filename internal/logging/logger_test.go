package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger_CreatesDirAndWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	log, err := NewLogger(dir, "debug")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	log.Debug("probe_result", zap.String("url", "http://example.com/"))
	_ = log.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "linkprobe.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"probe_result"`) || !strings.Contains(string(b), `"url":"http://example.com/"`) {
		t.Fatalf("unexpected log content: %s", b)
	}
}

func TestNewLogger_UnknownLevelIsInfo(t *testing.T) {
	log, err := NewLogger(t.TempDir(), "chatty")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if log.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug should be disabled at the fallback level")
	}
	if !log.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("info should be enabled at the fallback level")
	}
}

func TestNewConsoleLogger(t *testing.T) {
	log, err := NewConsoleLogger(t.TempDir(), "info")
	if err != nil {
		t.Fatalf("NewConsoleLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	log.Warn("console_and_file")
}

package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rbxmesh.log")
	log, err := New(Options{Level: "debug", File: DefaultFileConfig(path)})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("decoded", zap.String("family", "mesh"), zap.Int("vertices", 3))
	log.Sync()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	if !s.Scan() {
		t.Fatal("log file is empty")
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(s.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v", err)
	}
	if entry["msg"] != "decoded" || entry["family"] != "mesh" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rbxmesh.log")
	log, err := New(Options{Level: "warn", File: DefaultFileConfig(path)})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("ignored")
	log.Sync()
	if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
		t.Errorf("expected no entries below warn, got %q", b)
	}

	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewNop(t *testing.T) {
	log, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected logger without outputs to discard entries")
	}
}

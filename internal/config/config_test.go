package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Leaderboard.Backend != BackendMemory || cfg.Leaderboard.Capacity != 50 {
		t.Fatalf("unexpected defaults %+v", cfg.Leaderboard)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
leaderboard:
  backend: sqlite
  seed: true
catalog:
  ttl: 30s
sqlite:
  path: /tmp/board.db
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Leaderboard.Backend != BackendSQLite || !cfg.Leaderboard.Seed || cfg.Leaderboard.Capacity != 50 {
		t.Fatalf("unexpected leaderboard section %+v", cfg.Leaderboard)
	}
	if cfg.SQLite.Path != "/tmp/board.db" {
		t.Fatalf("unexpected sqlite path %q", cfg.SQLite.Path)
	}
	if got := TTLDuration(cfg.Catalog.TTL, time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s ttl, got %v", got)
	}
}

func TestLoadRejectsIncompleteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("leaderboard:\n  backend: postgres\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for postgres backend without url")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pricing.TTLHours != 24 {
		t.Errorf("TTLHours = %d, want default 24", cfg.Pricing.TTLHours)
	}
	if cfg.UI.SessionLimit != 50 {
		t.Errorf("SessionLimit = %d, want default 50", cfg.UI.SessionLimit)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  db_path: /tmp/custom.db
pricing:
  ttl_hours: 6
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.DBPath != "/tmp/custom.db" {
		t.Errorf("DBPath = %q", cfg.Storage.DBPath)
	}
	if cfg.CatalogTTL() != 6*time.Hour {
		t.Errorf("CatalogTTL = %v, want 6h", cfg.CatalogTTL())
	}
	// Untouched sections keep their defaults.
	if cfg.UI.SessionLimit != 50 {
		t.Errorf("SessionLimit = %d, want 50", cfg.UI.SessionLimit)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

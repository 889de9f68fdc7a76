package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "legifr.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database != "legi.sqlite" {
		t.Errorf("Database = %q, want legi.sqlite", cfg.Database)
	}
	d, err := cfg.Debounce()
	if err != nil {
		t.Fatal(err)
	}
	if d != DefaultDebounce {
		t.Errorf("Debounce = %v, want %v", d, DefaultDebounce)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legifr.yaml")
	data := "database: /var/lib/legi.sqlite\ndump_dir: /srv/dumps\ndump_debounce: 5s\ndry_run: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database != "/var/lib/legi.sqlite" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.DumpDir != "/srv/dumps" {
		t.Errorf("DumpDir = %q", cfg.DumpDir)
	}
	if !cfg.DryRun {
		t.Error("DryRun = false")
	}
	d, err := cfg.Debounce()
	if err != nil {
		t.Fatal(err)
	}
	if d != 5*time.Second {
		t.Errorf("Debounce = %v, want 5s", d)
	}
}

func TestLoadRejectsBadDebounce(t *testing.T) {
	cfg := &Config{DumpDebounce: "soon"}
	if _, err := cfg.Debounce(); err == nil {
		t.Error("Debounce accepted a bad duration")
	}
}

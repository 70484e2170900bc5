package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.StepBudget != 500_000 {
		t.Errorf("StepBudget = %d, want 500000", cfg.StepBudget)
	}
	if cfg.AncestorDepthLimit != 16 {
		t.Errorf("AncestorDepthLimit = %d, want 16", cfg.AncestorDepthLimit)
	}
	if cfg.Delimiter() != ',' {
		t.Errorf("Delimiter() = %q, want ','", cfg.Delimiter())
	}
}

func TestLoadFilePartialOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.yaml")
	if err := os.WriteFile(path, []byte("stepBudget: 10\nbaseUrl: http://example.test/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.StepBudget != 10 {
		t.Errorf("StepBudget = %d, want 10", cfg.StepBudget)
	}
	if cfg.BaseURL != "http://example.test/" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	// Fields absent from the file keep their defaults.
	if cfg.AncestorDepthLimit != 16 {
		t.Errorf("AncestorDepthLimit = %d, want 16 (default overlay)", cfg.AncestorDepthLimit)
	}
	if cfg.Delimiter() != ',' {
		t.Errorf("Delimiter() = %q, want default ','", cfg.Delimiter())
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

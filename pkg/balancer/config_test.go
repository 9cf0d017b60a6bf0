package balancer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, path, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Fatalf("expected empty resolved path for missing file, got %q", path)
	}
	if cfg.DefaultTarget != "" || cfg.BalanceAll {
		t.Fatalf("expected zero-value defaults, got %+v", cfg)
	}
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "default_target: \"@2\"\nbalance_all: true\nsnapshot_path: /tmp/snaps.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, resolved, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.DefaultTarget != "@2" || !cfg.BalanceAll || cfg.SnapshotPath != "/tmp/snaps.yaml" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_MalformedYAMLIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("default_target: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for malformed config, got nil")
	}
}

func TestConfigValidate_RejectsWhitespaceTarget(t *testing.T) {
	cfg := &Config{DefaultTarget: "my window"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for target with whitespace, got nil")
	}
}

func TestDefaultConfigDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgtest")
	dir, err := DefaultConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdgtest", "tmux-layout-balancer") {
		t.Fatalf("unexpected config dir: %q", dir)
	}
}

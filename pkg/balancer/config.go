package balancer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration for tmux-layout-balancer, loaded from a YAML file under the
// user's config dir:
//
//	~/.config/tmux-layout-balancer/config.yaml
//
// On systems honoring XDG, $XDG_CONFIG_HOME is used instead of ~/.config.
// A missing config file is not an error; all fields have usable zero-value
// defaults so the tool works out of the box.
//
// Example YAML:
//
// default_target: ""        # tmux target-window; empty = current window
// balance_all: false        # `tmux-layout-balancer` with no flags touches every window
// snapshot_path: ""         # override for the snapshots file location

const (
	defaultConfigDirName  = "tmux-layout-balancer"
	defaultConfigFilename = "config.yaml"
)

// Config represents the full YAML configuration.
type Config struct {
	// DefaultTarget is the tmux window target used when the CLI is invoked
	// without --window. Empty means the current window.
	DefaultTarget string `yaml:"default_target,omitempty"`

	// BalanceAll makes a bare invocation behave like --all.
	BalanceAll bool `yaml:"balance_all,omitempty"`

	// SnapshotPath overrides where named layout snapshots are stored.
	// Empty uses the default path next to this config file.
	SnapshotPath string `yaml:"snapshot_path,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.DefaultTarget, " \t\n") {
		return fmt.Errorf("default_target %q contains whitespace; tmux targets cannot", c.DefaultTarget)
	}
	return nil
}

// DefaultConfigDir returns the directory path for this application's config.
// Precedence:
//  1. $XDG_CONFIG_HOME/tmux-layout-balancer
//  2. ~/.config/tmux-layout-balancer
func DefaultConfigDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, defaultConfigDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", defaultConfigDirName), nil
}

// DefaultConfigPath returns the full path to config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultConfigFilename), nil
}

// LoadConfig reads the YAML config from path. If path is empty, the default
// path is used. A missing file returns defaults and no error; a present but
// malformed file is an error (silently ignoring a user's config hides typos).
func LoadConfig(path string) (*Config, string, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), "", nil
		}
		return nil, "", fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, path, nil
}

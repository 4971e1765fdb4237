// Package config resolves the client's configuration once at startup: an
// optional TOML file, environment fallbacks, and the probe for the optional
// delta diff highlighter. The result is passed explicitly to collaborators
// so tests can inject either capability deterministically.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrEditorUnset is reported when an edit operation is requested but no
// editor can be resolved. The operation is aborted; nothing is spawned.
var ErrEditorUnset = errors.New("no editor configured: set $EDITOR or editor in config.toml")

// Config is the resolved configuration.
type Config struct {
	// Editor is the command used for foreground edit operations. Empty
	// when neither the config file nor $EDITOR provides one.
	Editor string

	// DeltaPath is the resolved path of the delta highlighter, or empty
	// when it is unavailable or disabled. Computed once at startup.
	DeltaPath string

	// LogLevel enables session file logging when non-empty.
	LogLevel string
}

// fileConfig is the on-disk shape of $XDG_CONFIG_HOME/gitu/config.toml.
type fileConfig struct {
	Editor   string `toml:"editor"`
	UseDelta *bool  `toml:"use_delta"`
	LogLevel string `toml:"log_level"`
}

// Load reads the config file if present, applies environment fallbacks and
// probes for delta. A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	var fc fileConfig

	path, err := configPath()
	if err == nil {
		if _, err := toml.DecodeFile(path, &fc); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg := &Config{
		Editor:   fc.Editor,
		LogLevel: fc.LogLevel,
	}

	if cfg.Editor == "" {
		cfg.Editor = os.Getenv("EDITOR")
	}

	if fc.UseDelta == nil || *fc.UseDelta {
		if path, err := exec.LookPath("delta"); err == nil {
			cfg.DeltaPath = path
		}
	}

	return cfg, nil
}

// ResolveEditor returns the editor command, or ErrEditorUnset when no editor
// is configured.
func (c *Config) ResolveEditor() (string, error) {
	if c.Editor == "" {
		return "", ErrEditorUnset
	}
	return c.Editor, nil
}

func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gitu", "config.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".config", "gitu", "config.toml"), nil
}

// Package config loads the recad configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user settings. LibraryPaths are directories searched for
// <Library>.kicad_sym files before the embedded fallback library.
type Config struct {
	LibraryPaths []string `toml:"library_paths"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LibraryPaths: []string{"/usr/share/kicad/symbols"},
	}
}

// Load reads a TOML configuration file. A missing file yields the
// defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// LoadDefault reads the configuration from RECAD_CONFIG when set,
// otherwise from ~/.config/recad/config.toml.
func LoadDefault() (*Config, error) {
	path := os.Getenv("RECAD_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(home, ".config", "recad", "config.toml")
	}
	return Load(path)
}

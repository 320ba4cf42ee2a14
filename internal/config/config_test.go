package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.LibraryPaths) == 0 {
		t.Error("Expected default library paths")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "library_paths = [\"/opt/symbols\", \"/home/user/kicad\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.LibraryPaths) != 2 || cfg.LibraryPaths[0] != "/opt/symbols" {
		t.Errorf("Unexpected paths: %v", cfg.LibraryPaths)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not_a_key = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestLoadDefaultEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("library_paths = [\"/env/path\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RECAD_CONFIG", path)

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if len(cfg.LibraryPaths) != 1 || cfg.LibraryPaths[0] != "/env/path" {
		t.Errorf("Unexpected paths: %v", cfg.LibraryPaths)
	}
}

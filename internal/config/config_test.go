package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissing(t *testing.T) {
	_, err := loadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("loadFrom missing file: err = %v, want ErrNotFound", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.ApprovedDirectory = "/home/agent/workspace"
	cfg.Model = "qwen2.5-coder:7b"

	if err := saveTo(cfg, path); err != nil {
		t.Fatalf("saveTo: %v", err)
	}

	loaded, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}

	if loaded.ApprovedDirectory != cfg.ApprovedDirectory {
		t.Errorf("ApprovedDirectory = %q, want %q", loaded.ApprovedDirectory, cfg.ApprovedDirectory)
	}
	if loaded.Model != cfg.Model {
		t.Errorf("Model = %q, want %q", loaded.Model, cfg.Model)
	}
	if loaded.OnDenial != DenialBlock {
		t.Errorf("OnDenial = %q, want %q", loaded.OnDenial, DenialBlock)
	}
	if !loaded.Audit.Enabled {
		t.Error("Audit.Enabled not preserved")
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadFrom(path); err == nil {
		t.Error("loadFrom malformed yaml should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"absolute approved dir", func(c *Config) { c.ApprovedDirectory = "/work" }, false},
		{"relative approved dir", func(c *Config) { c.ApprovedDirectory = "work" }, true},
		{"warn denial", func(c *Config) { c.OnDenial = DenialWarn }, false},
		{"bogus denial", func(c *Config) { c.OnDenial = "shrug" }, true},
		{"empty denial", func(c *Config) { c.OnDenial = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ApprovedDirectory != "" {
		t.Errorf("Default approved_directory = %q, want empty", cfg.ApprovedDirectory)
	}
	if cfg.Provider != DefaultProvider {
		t.Errorf("Default provider = %q, want %q", cfg.Provider, DefaultProvider)
	}
	if cfg.Audit.Path == "" {
		t.Error("Default audit path is empty")
	}
}

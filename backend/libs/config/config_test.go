package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sample struct {
	HTTP struct {
		Port string `yaml:"port" env:"SAMPLE_HTTP_PORT"`
	} `yaml:"http"`
	Backend struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout" env:"SAMPLE_TIMEOUT"`
	} `yaml:"backend"`
	Debug   bool     `yaml:"debug" env:"SAMPLE_DEBUG"`
	Origins []string `yaml:"origins" env:"SAMPLE_ORIGINS"`
	Ignored string   `env:"-"`
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("http:\n  port: \"9000\"\nbackend:\n  url: http://from-file\n  timeout: 2s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SAMPLE_HTTP_PORT", "9100")
	t.Setenv("SAMPLE_DEBUG", "true")
	t.Setenv("SAMPLE_ORIGINS", "a.example, b.example,")
	t.Setenv("IGNORED", "nope")

	var cfg sample
	if err := LoadConfigFile(path, &cfg); err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	if cfg.HTTP.Port != "9100" {
		t.Errorf("port = %q, want env override 9100", cfg.HTTP.Port)
	}
	if cfg.Backend.URL != "http://from-file" {
		t.Errorf("url = %q, want value from file", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", cfg.Backend.Timeout)
	}
	if !cfg.Debug {
		t.Error("debug = false, want true")
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "b.example" {
		t.Errorf("origins = %v", cfg.Origins)
	}
	if cfg.Ignored != "" {
		t.Errorf("ignored field was populated: %q", cfg.Ignored)
	}
}

func TestLoadConfigDerivedKeys(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://from-env")
	t.Setenv("SAMPLE_TIMEOUT", "150ms")

	var cfg sample
	if err := LoadConfigFile("", &cfg); err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Backend.URL != "http://from-env" {
		t.Errorf("url = %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 150*time.Millisecond {
		t.Errorf("timeout = %v", cfg.Backend.Timeout)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	var notStruct int
	if err := LoadConfigFile("", &notStruct); err == nil {
		t.Fatal("expected error for non-struct target")
	}
	if err := LoadConfigFile("", nil); err == nil {
		t.Fatal("expected error for nil target")
	}

	t.Setenv("SAMPLE_DEBUG", "maybe")
	var cfg sample
	if err := LoadConfigFile("", &cfg); err == nil {
		t.Fatal("expected parse error for invalid bool")
	}
}

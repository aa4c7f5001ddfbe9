package config

import "testing"

func TestLoadRequiresBackend(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without backend url")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SUPABASE_URL", "http://localhost:54321")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("CALCULATOR_WEB_HTTP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddress() != ":9090" {
		t.Errorf("addr = %q", cfg.HTTPAddress())
	}
	if cfg.Data.Driver != DriverREST || cfg.Web.LoginPath != "/login.html" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestValidatePostgresDriver(t *testing.T) {
	cfg := Defaults()
	cfg.Backend.URL = "http://localhost"
	cfg.Backend.AnonKey = "anon"
	cfg.Data.Driver = DriverPostgres
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without dsn")
	}
	cfg.Data.PostgresDSN = "postgres://localhost/db"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	cfg.Data.Driver = "sqlite"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown driver")
	}
}

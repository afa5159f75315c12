package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site != "ohp" {
		t.Errorf("site = %q, want ohp", cfg.Site)
	}
	if cfg.Pts != 200 || cfg.MarginMin != 15 || cfg.HorizonObs != 30 {
		t.Errorf("grid defaults = %d/%d/%v", cfg.Pts, cfg.MarginMin, cfg.HorizonObs)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("log defaults = %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
site: vlt
pts: 400
log:
  level: debug
extra_sites:
  - id: backyard
    name: Backyard
    lat: 48.85
    lon: 2.35
    elevation: 35
    timezone: Europe/Paris
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site != "vlt" || cfg.Pts != 400 {
		t.Errorf("file layer not applied: site=%q pts=%d", cfg.Site, cfg.Pts)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
	// Unset keys keep their defaults.
	if cfg.MarginMin != 15 {
		t.Errorf("margin_min = %d, want default 15", cfg.MarginMin)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	s, err := cat.Lookup("backyard")
	if err != nil {
		t.Fatalf("Lookup(backyard): %v", err)
	}
	if s.PressureHPa != 1010 {
		t.Errorf("extra site pressure = %v, want catalog default", s.PressureHPa)
	}
	if _, err := cat.Lookup("ohp"); err != nil {
		t.Errorf("builtin site lost: %v", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("site: vlt\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NIGHTPLAN_SITE", "mko")
	t.Setenv("NIGHTPLAN_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site != "mko" {
		t.Errorf("site = %q, want env value mko", cfg.Site)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn", cfg.Log.Level)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty site", func(c *Config) { c.Site = "" }},
		{"pts too small", func(c *Config) { c.Pts = 1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"horizon_obs range", func(c *Config) { c.HorizonObs = 120 }},
		{"extra site latitude", func(c *Config) {
			c.ExtraSites = []SiteConfig{{ID: "x", Lat: 99, Timezone: "UTC"}}
		}},
		{"extra site missing timezone", func(c *Config) {
			c.ExtraSites = []SiteConfig{{ID: "x", Lat: 10}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigPathEnvVar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("site: ctio\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site != "ctio" {
		t.Errorf("site = %q, want ctio from %s", cfg.Site, ConfigPathEnvVar)
	}
}

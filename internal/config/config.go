// Package config loads layered configuration: struct defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/litescript/ls-nightplan/internal/sites"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ls-nightplan/config.yaml",
	"/etc/ls-nightplan/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "NIGHTPLAN_CONFIG"

// envVars maps environment variables to koanf paths. Explicit mapping
// keeps multi-word keys like horizon_obs unambiguous.
var envVars = map[string]string{
	"NIGHTPLAN_SITE":        "site",
	"NIGHTPLAN_PTS":         "pts",
	"NIGHTPLAN_MARGIN_MIN":  "margin_min",
	"NIGHTPLAN_FULL_HOUR":   "full_hour",
	"NIGHTPLAN_HORIZON_OBS": "horizon_obs",
	"NIGHTPLAN_LOG_LEVEL":   "log.level",
	"NIGHTPLAN_LOG_FORMAT":  "log.format",
}

// Config is the full application configuration.
type Config struct {
	// Site is the default observatory id.
	Site string `koanf:"site" validate:"required"`
	// Pts is the night grid sample count.
	Pts int `koanf:"pts" validate:"gte=2,lte=100000"`
	// MarginMin extends the grid past sunset/sunrise, in minutes.
	MarginMin int `koanf:"margin_min" validate:"gte=0,lte=720"`
	// FullHour snaps the grid to hour boundaries instead of the margin.
	FullHour bool `koanf:"full_hour"`
	// HorizonObs is the minimum observable altitude in degrees.
	HorizonObs float64 `koanf:"horizon_obs" validate:"gte=0,lte=90"`

	Log LogConfig `koanf:"log"`

	// ExtraSites adds observatories on top of the built-in catalog.
	ExtraSites []SiteConfig `koanf:"extra_sites" validate:"dive"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// SiteConfig is a user-defined observatory entry.
type SiteConfig struct {
	ID        string  `koanf:"id" validate:"required"`
	Name      string  `koanf:"name"`
	Lat       float64 `koanf:"lat" validate:"gte=-90,lte=90"`
	Lon       float64 `koanf:"lon" validate:"gte=-180,lte=180"`
	Elevation float64 `koanf:"elevation" validate:"gte=-500,lte=9000"`
	Timezone  string  `koanf:"timezone" validate:"required"`
	Temp      float64 `koanf:"temp"`
	Pressure  float64 `koanf:"pressure" validate:"gte=0"`
	MoonAvoid float64 `koanf:"moon_avoid" validate:"gte=0,lte=180"`
}

// Default returns the configuration defaults, applied before file and
// environment layers.
func Default() *Config {
	return &Config{
		Site:       "ohp",
		Pts:        200,
		MarginMin:  15,
		HorizonObs: 30,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, the first config file
// found (or path if non-empty), and environment variables, then
// validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("NIGHTPLAN_", ".", func(key string) string {
		return envVars[key]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Catalog returns the built-in observatory catalog extended with the
// configured extra sites.
func (c *Config) Catalog() (*sites.Catalog, error) {
	cat := sites.Builtin()
	for _, s := range c.ExtraSites {
		err := cat.Add(sites.Site{
			ID:           s.ID,
			Name:         s.Name,
			Lat:          s.Lat,
			Lon:          s.Lon,
			ElevationM:   s.Elevation,
			Timezone:     s.Timezone,
			TempC:        s.Temp,
			PressureHPa:  s.Pressure,
			MoonAvoidDeg: s.MoonAvoid,
		})
		if err != nil {
			return nil, fmt.Errorf("extra site %q: %w", s.ID, err)
		}
	}
	return cat, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

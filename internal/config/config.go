// Package config loads the algorithm and server configuration from a YAML
// file, overlaid with environment variables: plain os.Getenv lookups for
// the ambient, non-algorithmic settings, and the dedicated yaml.v3 decoder
// for the larger AlgorithmConfig document.
package config

import (
	"fmt"
	"os"

	"github.com/oleamind/cropplanner/models"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the settings outside models.AlgorithmConfig: where to
// listen, how to reach Postgres, and the JWT signing secret.
type ServerConfig struct {
	Port          string `yaml:"port"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	JWTSecret     string `yaml:"jwt_secret"`
	AllowedOrigin string `yaml:"allowed_origin"`
}

// Config is the full application configuration document.
type Config struct {
	Server    ServerConfig           `yaml:"server"`
	Algorithm models.AlgorithmConfig `yaml:"algorithm"`
}

// Default returns a Config with the built-in algorithm defaults and
// development-friendly server defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:          "8080",
			PostgresDSN:   "",
			JWTSecret:     "",
			AllowedOrigin: "http://localhost:5173",
		},
		Algorithm: models.DefaultAlgorithmConfig(),
	}
}

// Load reads a YAML configuration file, falling back to Default() for any
// field the file leaves unset, then applies environment overrides
// (CROPPLANNER_PORT, CROPPLANNER_POSTGRES_DSN, CROPPLANNER_JWT_SECRET,
// CROPPLANNER_ALLOWED_ORIGIN). An
// empty path skips the file and returns defaults plus env overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Algorithm.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: invalid algorithm settings: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CROPPLANNER_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("CROPPLANNER_POSTGRES_DSN"); v != "" {
		cfg.Server.PostgresDSN = v
	}
	if v := os.Getenv("CROPPLANNER_JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("CROPPLANNER_ALLOWED_ORIGIN"); v != "" {
		cfg.Server.AllowedOrigin = v
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings for the scorepad service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
}

// HTTPConfig holds the API listener settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig holds the embedded database settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	// TTL is how long a persisted session survives between visits before
	// it is discarded on load.
	TTL time.Duration `yaml:"ttl"`
}

// LoadConfig loads the configuration from a YAML file. A missing file is
// not an error: defaults plus environment overrides apply either way.
func LoadConfig(filename string) (*Config, error) {
	cfg := &Config{
		HTTP:    HTTPConfig{Addr: ":8080"},
		Storage: StorageConfig{Path: "scorepad.db"},
		Session: SessionConfig{TTL: 10 * time.Hour},
	}

	if data, err := os.ReadFile(filename); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("SCOREPAD_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("SCOREPAD_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("SCOREPAD_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCOREPAD_SESSION_TTL value: %v", err)
		}
		cfg.Session.TTL = d
	}

	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", cfg.Session.TTL)
	}

	return cfg, nil
}

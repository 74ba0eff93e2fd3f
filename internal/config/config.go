package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Archive ArchiveConfig `yaml:"archive"`
	API     APIConfig     `yaml:"api"`
}

type ArchiveConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type APIConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"` // "development" or "production"
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Archive: ArchiveConfig{
			BaseURL:        "https://nemweb.com.au",
			TimeoutSeconds: 60,
		},
		API: APIConfig{
			Port: "8080",
			Env:  "development",
		},
	}
}

// Load reads a YAML config, fills defaults, applies environment
// overrides and validates. An empty path yields the defaults (plus env
// overrides).
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, err
		}
	}
	c.applyEnvOverrides()
	if c.Archive.BaseURL == "" {
		c.Archive.BaseURL = Default().Archive.BaseURL
	}
	if c.Archive.TimeoutSeconds == 0 {
		c.Archive.TimeoutSeconds = Default().Archive.TimeoutSeconds
	}
	if c.API.Port == "" {
		c.API.Port = Default().API.Port
	}
	return c, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NEMWEB_BASE_URL"); v != "" {
		c.Archive.BaseURL = v
	}
	if v := os.Getenv("NEMWEB_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Archive.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("API_PORT"); v != "" {
		c.API.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.API.Env = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Archive.BaseURL == "" {
		return errors.New("archive.base_url is required")
	}
	if c.Archive.TimeoutSeconds <= 0 {
		return fmt.Errorf("archive.timeout_seconds must be positive, got %d", c.Archive.TimeoutSeconds)
	}
	if _, err := strconv.Atoi(c.API.Port); err != nil {
		return fmt.Errorf("api.port must be numeric, got %q", c.API.Port)
	}
	return nil
}

// Timeout returns the archive HTTP timeout as a duration.
func (a ArchiveConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Database struct {
		// Path is the SQLite database file, or ":memory:".
		Path string `yaml:"path"`
	} `yaml:"database"`
	Credentials struct {
		// Dir is searched for credential files when the environment does
		// not carry the key. Empty means $CREDENTIALS_DIRECTORY.
		Dir string `yaml:"dir"`
	} `yaml:"credentials"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.Database.Path = "incontext.db"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	return cfg
}

// Load reads a YAML configuration file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = Default().Database.Path
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = Default().Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = Default().Logging.Format
	}
	return cfg, nil
}

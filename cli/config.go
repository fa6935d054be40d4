// Copyright 2026 The ksana Authors. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package cli

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// configEnvVar names a configuration file to load when --config is not
// given.
const configEnvVar = "KSANA_CONFIG"

// Config holds the tool's tunable settings.
type Config struct {
	// OutputDir is the directory recordings are written to. Empty means
	// the current directory.
	OutputDir string `yaml:"outputDir"`

	// RetryIntervalMs is the pause between simulator connection sweeps.
	RetryIntervalMs int `yaml:"retryIntervalMs"`

	// NoDataLimit is the number of consecutive empty polls after which the
	// simulator is considered gone.
	NoDataLimit int `yaml:"noDataLimit"`

	// LogLevel is the minimum level to log ("debug", "info", "warn",
	// "error").
	LogLevel string `yaml:"logLevel"`
}

func defaultConfig() *Config {
	return &Config{
		RetryIntervalMs: 1000,
		NoDataLimit:     20,
		LogLevel:        "info",
	}
}

// RetryInterval returns RetryIntervalMs as a Duration.
func (c *Config) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalMs) * time.Millisecond
}

func (c *Config) validate() error {
	if c.RetryIntervalMs <= 0 {
		return errors.Errorf("retryIntervalMs must be positive, got %d", c.RetryIntervalMs)
	}
	if c.NoDataLimit <= 0 {
		return errors.Errorf("noDataLimit must be positive, got %d", c.NoDataLimit)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the file at path. When
// path is empty, the file named by the KSANA_CONFIG environment variable is
// used instead, if set.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "validating configuration")
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading configuration file %q", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parsing configuration file %q", path)
	}
	return nil
}

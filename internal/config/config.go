// Package config loads the optional YAML configuration consumed by the CLI:
// a preferred access method, parameter overrides and output options.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration file.
type Config struct {
	// Method forces an access method by name; empty means auto-detect.
	Method string `yaml:"method,omitempty"`
	// Params overrides access-method parameters by name.
	Params map[string]string `yaml:"params,omitempty"`
	// Numeric disables name lookups in listings.
	Numeric bool `yaml:"numeric,omitempty"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose,omitempty"`
}

// Load reads a configuration file. A missing file yields an empty
// configuration; a malformed one is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

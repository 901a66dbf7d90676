package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML scan configuration accepted by the CLI.
type Config struct {
	Root             string `yaml:"root"`
	BuiltinRoot      string `yaml:"builtinRoot"`
	ExtraBuiltinRoot string `yaml:"extraBuiltinRoot"`

	HostVersion string `yaml:"hostVersion"`
	HostDate    string `yaml:"hostDate"`
	HostCommit  string `yaml:"hostCommit"`

	Language       string `yaml:"language"`
	DevMode        bool   `yaml:"devMode"`
	TargetPlatform string `yaml:"targetPlatform"`

	IsUnderDevelopment bool              `yaml:"underDevelopment"`
	Translations       map[string]string `yaml:"translations"`
}

// loadConfig reads the optional YAML configuration; a positional root
// argument overrides the configured scan root.
func loadConfig(path, root string) (*Config, error) {
	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
		}
	}
	if root != "" {
		config.Root = root
	}
	if config.Root == "" {
		return nil, fmt.Errorf("no scan root: pass a root argument or set root in the config")
	}
	return config, nil
}

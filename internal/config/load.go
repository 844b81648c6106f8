package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/imamik/nodeforge/internal/provisioning"
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()
	cfg.Timeouts = LoadTimeouts()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadRequest reads a provisioning request from a YAML file.
// A missing network name defaults to "<service>-net".
func LoadRequest(path string) (provisioning.Request, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return provisioning.Request{}, fmt.Errorf("failed to read request file: %w", err)
	}

	var req provisioning.Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return provisioning.Request{}, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	if req.NetworkName == "" && req.ServiceName != "" {
		req.NetworkName = DefaultNetworkName(req.ServiceName)
	}
	if err := req.Validate(); err != nil {
		return provisioning.Request{}, err
	}
	return req, nil
}

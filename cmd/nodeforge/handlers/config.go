package handlers

import (
	"github.com/imamik/nodeforge/internal/config"
)

var appVersion = "dev"

// SetVersion sets the version reported to the cloud API.
func SetVersion(v string) {
	appVersion = v
}

// Factory function variables - can be replaced in tests.
var (
	loadConfigFile = config.LoadFile
	defaultConfig  = config.Default
)

// loadConfig reads the configuration file, or returns the defaults when no
// path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	return loadConfigFile(path)
}

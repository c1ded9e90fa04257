// Package project persists application state: the YAML app config and JSON
// run reports.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PresentPack/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.presentpack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".presentpack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// SaveAppConfig persists an AppConfig to the given path as YAML.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. Keys missing from
// the file keep their default values. If the file does not exist, it
// returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	config := model.DefaultAppConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if config.RecentInputs == nil {
		config.RecentInputs = []string{}
	}
	if len(config.RecentInputs) > model.MaxRecentInputs {
		config.RecentInputs = config.RecentInputs[:model.MaxRecentInputs]
	}
	return config, nil
}

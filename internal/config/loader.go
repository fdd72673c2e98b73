package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBubbles loads Bubble Shooter configuration.
// Search order: customPath -> ~/.arcade/configs/bubbles.yaml -> ./configs/bubbles.yaml -> embedded default
// Files may set only some keys; the rest keep their default values.
func LoadBubbles(customPath string) (BubblesConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultBubblesConfig(), fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := parseBubbles(data)
		if err != nil {
			return DefaultBubblesConfig(), fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("bubbles.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseBubbles(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "bubbles.yaml")); err == nil {
		if cfg, err := parseBubbles(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseBubbles(defaultBubblesYAML)
	if err != nil {
		return DefaultBubblesConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseBubbles decodes YAML over the defaults and validates the result.
func parseBubbles(data []byte) (BubblesConfig, error) {
	cfg := DefaultBubblesConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

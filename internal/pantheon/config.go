package pantheon

// ABOUTME: Machine token persistence via ~/.build-tools/config.yaml.
// ABOUTME: TERMINUS_TOKEN always wins over the stored token.

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the stored platform credentials and host override.
type Config struct {
	MachineToken string `yaml:"machine_token,omitempty"`
	Host         string `yaml:"host,omitempty"`
}

// ConfigPath returns the path to ~/.build-tools/config.yaml.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".build-tools", "config.yaml"), nil
}

// LoadConfig reads ~/.build-tools/config.yaml. Returns a zero-value Config
// if the file is missing.
func LoadConfig() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is ~/.build-tools/config.yaml
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config.yaml: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config.yaml: %w", err)
	}
	return &c, nil
}

// SaveConfig writes config to ~/.build-tools/config.yaml, creating the
// directory on first use. The file holds a credential, so it is written
// user-only.
func SaveConfig(c *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(configPath), err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config.yaml: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("write config.yaml: %w", err)
	}
	return nil
}

// ResolveToken returns the machine token from TERMINUS_TOKEN or, failing
// that, the stored config.
func ResolveToken() (string, error) {
	if token := os.Getenv("TERMINUS_TOKEN"); token != "" {
		return token, nil
	}
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	return cfg.MachineToken, nil
}

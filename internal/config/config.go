// Package config loads the application configuration from environment
// variables, with an optional YAML file for threshold overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP Server Configuration
	HTTPPort int

	// Data source configuration. SQLitePath takes precedence over DataDir
	// when both are set.
	DataDir    string
	SQLitePath string

	// Optional YAML file with threshold overrides
	ThresholdsFile string

	// Slack notification configuration (disabled when the token is empty)
	SlackBotToken string
	SlackChannel  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPPort = getEnvAsIntOrDefault("HTTP_PORT", 3000)
	cfg.DataDir = getEnvOrDefault("FLEET_DATA_DIR", "data")
	cfg.SQLitePath = os.Getenv("FLEET_SQLITE_PATH")
	cfg.ThresholdsFile = os.Getenv("FLEET_THRESHOLDS_FILE")
	cfg.SlackBotToken = os.Getenv("SLACK_BOT_TOKEN")
	cfg.SlackChannel = getEnvOrDefault("SLACK_ALERT_CHANNEL", "#fleet-alerts")

	return cfg, nil
}

// LoadThresholdOverrides parses a YAML file mapping threshold keys to
// numeric values. An empty path yields no overrides.
func LoadThresholdOverrides(path string) (map[string]float64, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading thresholds file: %w", err)
	}
	var overrides map[string]float64
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing thresholds file %s: %w", path, err)
	}
	return overrides, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the value of an environment variable as an integer or a default value
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

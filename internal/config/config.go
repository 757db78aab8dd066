// Package config handles Pathways configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/pathways/config.yaml, /etc/pathways/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pathways", "config.yaml"))
	}

	paths = append(paths, "/etc/pathways/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all Pathways configuration.
type Config struct {
	Listen   ListenConfig `yaml:"listen"`
	Engine   EngineConfig `yaml:"engine"`
	Tools    ToolsConfig  `yaml:"tools"`
	Agent    AgentConfig  `yaml:"agent"`
	LogLevel string       `yaml:"log_level"`
}

// ListenConfig defines the API server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// EngineConfig defines the completion engine connection.
type EngineConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIToken  string `yaml:"api_token"`
	MaxTokens int    `yaml:"max_tokens"` // Reply budget per completion call (default 1024)
}

// ToolsConfig defines the lookup backend shared by all tools.
type ToolsConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"` // Per-call timeout in seconds (default 15)
}

// AgentConfig tunes the completion loop.
type AgentConfig struct {
	// MaxIterations bounds the number of directive-triggering round trips
	// before the loop forces a final answer. Default 3.
	MaxIterations int `yaml:"max_iterations"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{Port: 8080},
		Engine: EngineConfig{
			BaseURL:   "http://localhost:11434",
			Model:     "@cf/meta/llama-3.1-8b-instruct",
			MaxTokens: 1024,
		},
		Tools: ToolsConfig{
			BaseURL:    "http://localhost:8081/api",
			TimeoutSec: 15,
		},
		Agent: AgentConfig{MaxIterations: 3},
	}
}

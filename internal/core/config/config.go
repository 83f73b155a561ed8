// Package config handles loading and merging Repoflow's bot configuration.
// This is the bot's own configuration, not the per-repository rules file;
// rule documents are handled by internal/core/engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// GitHub configures the tracker API client.
	GitHub GitHubConfig `yaml:"github"`

	// OSPO configures the organizational identity service.
	OSPO OSPOConfig `yaml:"ospo"`

	// Rules configures where rule documents live and the minimum schema
	// version the engine accepts.
	Rules RulesConfig `yaml:"rules"`

	// Server configures the webhook listener.
	Server ServerConfig `yaml:"server"`

	// BotUsers lists additional logins to treat as bots.
	BotUsers []string `yaml:"bot_users,omitempty"`
}

// GitHubConfig holds tracker API settings.
type GitHubConfig struct {
	Token string `yaml:"token"`
}

// OSPOConfig holds identity service settings.
type OSPOConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token,omitempty"`
}

// RulesConfig holds rule document settings.
type RulesConfig struct {
	// Path is the rules file location inside each repository.
	Path string `yaml:"path"`

	// MinSchemaVersion is the lowest schema-version the engine runs.
	MinSchemaVersion int `yaml:"min_schema_version"`
}

// ServerConfig holds webhook listener settings.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// Default returns a configuration with only the defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a config file from the given path and expands environment
// variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parseRaw(data)
}

// parseRaw parses YAML config content with env expansion and defaults.
func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		return cfg, nil
	}

	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	expanded := os.ExpandEnv(string(parentData))
	var parentCfg Config
	if err := yaml.Unmarshal([]byte(expanded), &parentCfg); err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(&parentCfg, cfg)
	merged.applyDefaults()

	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/repoflow-bot.yaml",
		".github/repoflow-bot.yml",
		".repoflow.yaml",
		".repoflow.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Rules.Path == "" {
		c.Rules.Path = ".github/repoflow.yml"
	}
	if c.Rules.MinSchemaVersion == 0 {
		c.Rules.MinSchemaVersion = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent

	if child.GitHub.Token != "" {
		result.GitHub.Token = child.GitHub.Token
	}
	if child.OSPO.URL != "" {
		result.OSPO.URL = child.OSPO.URL
	}
	if child.OSPO.Token != "" {
		result.OSPO.Token = child.OSPO.Token
	}
	if child.Rules.Path != "" {
		result.Rules.Path = child.Rules.Path
	}
	if child.Rules.MinSchemaVersion != 0 {
		result.Rules.MinSchemaVersion = child.Rules.MinSchemaVersion
	}
	if child.Server.Addr != "" {
		result.Server.Addr = child.Server.Addr
	}
	if child.Server.WebhookSecret != "" {
		result.Server.WebhookSecret = child.Server.WebhookSecret
	}
	if len(child.BotUsers) > 0 {
		result.BotUsers = child.BotUsers
	}

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/repoflow-bot.yaml" // default path
	}

	return org, repo, branch, path, nil
}

package config

import (
	"testing"
)

// TestConfigDefaults verifies that default values are applied correctly.
func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Rules.Path != ".github/repoflow.yml" {
		t.Errorf("Expected Rules.Path to be '.github/repoflow.yml', got %s", cfg.Rules.Path)
	}
	if cfg.Rules.MinSchemaVersion != 1 {
		t.Errorf("Expected Rules.MinSchemaVersion to be 1, got %d", cfg.Rules.MinSchemaVersion)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected Server.Addr to be ':8080', got %s", cfg.Server.Addr)
	}
}

func TestParseRaw(t *testing.T) {
	yamlContent := `
github:
  token: "tok"
ospo:
  url: "https://ospo.example.com"
rules:
  path: ".github/workflows.yml"
  min_schema_version: 2
server:
  addr: ":9090"
bot_users:
  - my-ci-bot
`
	cfg, err := parseRaw([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if cfg.GitHub.Token != "tok" {
		t.Errorf("Expected GitHub.Token 'tok', got '%s'", cfg.GitHub.Token)
	}
	if cfg.OSPO.URL != "https://ospo.example.com" {
		t.Errorf("Expected OSPO.URL set, got '%s'", cfg.OSPO.URL)
	}
	if cfg.Rules.Path != ".github/workflows.yml" {
		t.Errorf("Expected Rules.Path override, got '%s'", cfg.Rules.Path)
	}
	if cfg.Rules.MinSchemaVersion != 2 {
		t.Errorf("Expected MinSchemaVersion 2, got %d", cfg.Rules.MinSchemaVersion)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected Server.Addr ':9090', got '%s'", cfg.Server.Addr)
	}
	if len(cfg.BotUsers) != 1 || cfg.BotUsers[0] != "my-ci-bot" {
		t.Errorf("Expected BotUsers [my-ci-bot], got %v", cfg.BotUsers)
	}
}

func TestParseRawExpandsEnv(t *testing.T) {
	t.Setenv("REPOFLOW_TEST_TOKEN", "secret-token")

	cfg, err := parseRaw([]byte("github:\n  token: \"${REPOFLOW_TEST_TOKEN}\"\n"))
	if err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if cfg.GitHub.Token != "secret-token" {
		t.Errorf("Expected env-expanded token, got '%s'", cfg.GitHub.Token)
	}
}

func TestMergeConfigs(t *testing.T) {
	parent := &Config{}
	parent.applyDefaults()
	parent.GitHub.Token = "parent-token"
	parent.OSPO.URL = "https://parent.example.com"

	child := &Config{
		OSPO: OSPOConfig{URL: "https://child.example.com"},
		Rules: RulesConfig{
			MinSchemaVersion: 3,
		},
	}

	merged := mergeConfigs(parent, child)
	if merged.GitHub.Token != "parent-token" {
		t.Errorf("Expected parent token to survive, got '%s'", merged.GitHub.Token)
	}
	if merged.OSPO.URL != "https://child.example.com" {
		t.Errorf("Expected child OSPO.URL to win, got '%s'", merged.OSPO.URL)
	}
	if merged.Rules.MinSchemaVersion != 3 {
		t.Errorf("Expected child MinSchemaVersion to win, got %d", merged.Rules.MinSchemaVersion)
	}
	if merged.Rules.Path != ".github/repoflow.yml" {
		t.Errorf("Expected default Rules.Path to survive, got '%s'", merged.Rules.Path)
	}
}

func TestParseExtendsRef(t *testing.T) {
	tests := []struct {
		ref     string
		org     string
		repo    string
		branch  string
		path    string
		wantErr bool
	}{
		{"acme/policies@main", "acme", "policies", "main", ".github/repoflow-bot.yaml", false},
		{"acme/policies@main:configs/bot.yaml", "acme", "policies", "main", "configs/bot.yaml", false},
		{"no-at-sign", "", "", "", "", true},
		{"missing-slash@main", "", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			org, repo, branch, path, err := ParseExtendsRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExtendsRef failed: %v", err)
			}
			if org != tt.org || repo != tt.repo || branch != tt.branch || path != tt.path {
				t.Errorf("got (%s, %s, %s, %s)", org, repo, branch, path)
			}
		})
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-assistant/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "research-assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "anthropic:\n  api_key: sk-ant-test\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-test", cfg.AI.APIKey)
	assert.Equal(t, "claude-sonnet-4-5", cfg.AI.Model)
	assert.Equal(t, 4000, cfg.AI.MaxTokens)
	assert.InDelta(t, 0.3, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, 3, cfg.AI.MaxRetries)
	assert.Equal(t, types.ProviderAuto, cfg.Search.Provider)
	assert.Equal(t, 3, cfg.Search.MaxResultsPerQuery)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 2, cfg.Fetch.RetryAttempts)
	assert.Equal(t, 5000, cfg.Fetch.MaxContentWords)
	assert.Equal(t, 3, cfg.Agent.MinSubQueries)
	assert.Equal(t, 5, cfg.Agent.MaxSubQueries)
	assert.Equal(t, 10000, cfg.Agent.MaxSourceChars)
	assert.Equal(t, "reports", cfg.Output.ReportDir)
	assert.Equal(t, "archive", cfg.Output.ArchiveDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
anthropic:
  api_key: sk-ant-test
  model: claude-haiku-4-5
  max_tokens: 2000
search:
  provider: duckduckgo
  max_results_per_query: 5
fetching:
  timeout: 30s
agent:
  max_subqueries: 7
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5", cfg.AI.Model)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.Equal(t, types.ProviderDuckDuckGo, cfg.Search.Provider)
	assert.Equal(t, 5, cfg.Search.MaxResultsPerQuery)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 7, cfg.Agent.MaxSubQueries)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "anthropic:\n  api_key: sk-ant-test\n")
	t.Setenv("RESEARCH_ASSISTANT_ANTHROPIC_MODEL", "claude-opus-4-5")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "claude-opus-4-5", cfg.AI.Model)
}

func TestLoad_SecretsFillCredentials(t *testing.T) {
	path := writeConfig(t, "search:\n  provider: google\n")
	secrets := map[string]string{
		SecretAnthropicKey: "sk-ant-from-secrets",
		SecretGoogleKey:    "google-key",
		SecretGoogleCSEID:  "cse-id",
	}

	cfg, err := Load(path, secrets)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-from-secrets", cfg.AI.APIKey)
	assert.Equal(t, "google-key", cfg.Search.GoogleAPIKey)
	assert.Equal(t, "cse-id", cfg.Search.GoogleCSEID)
}

func TestLoad_ConfigValueBeatsSecret(t *testing.T) {
	path := writeConfig(t, "anthropic:\n  api_key: sk-ant-config\n")

	cfg, err := Load(path, map[string]string{SecretAnthropicKey: "sk-ant-secret"})
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-config", cfg.AI.APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate_MissingAPIKey(t *testing.T) {
	err := Validate(&types.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic API key")
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := &types.Config{
		AI:     types.AIConfig{APIKey: "sk-ant-test"},
		Search: types.SearchConfig{Provider: "bing"},
	}
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown search provider")
}

func TestValidate_GoogleRequiresCredentials(t *testing.T) {
	cfg := &types.Config{
		AI:     types.AIConfig{APIKey: "sk-ant-test"},
		Search: types.SearchConfig{Provider: types.ProviderGoogle},
	}
	require.Error(t, Validate(cfg))

	cfg.Search.GoogleAPIKey = "key"
	cfg.Search.GoogleCSEID = "cse"
	assert.NoError(t, Validate(cfg))
}

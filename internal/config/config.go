// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads and validates the assistant configuration from a YAML
// file, environment variables, and the secrets directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Secret file names recognized as credential fallbacks.
const (
	SecretAnthropicKey = "anthropic-api-key"
	SecretGoogleKey    = "google-api-key"
	SecretGoogleCSEID  = "google-cse-id"
)

// Load reads configuration from cfgFile (or research-assistant.yaml in the
// working directory / ~/.config/research-assistant when empty), applies
// RESEARCH_ASSISTANT_* environment overrides and defaults, fills credential
// gaps from secrets, and validates the result.
func Load(cfgFile string, secrets map[string]string) (*types.Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("research-assistant")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "research-assistant"))
		}
	}

	v.SetEnvPrefix("RESEARCH_ASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// The file is optional unless explicitly named.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applySecrets(&cfg, secrets)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.model", "claude-sonnet-4-5")
	// Empty defaults register credential keys so environment overrides are
	// visible to Unmarshal.
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("search.google_api_key", "")
	v.SetDefault("search.google_cse_id", "")
	v.SetDefault("anthropic.max_tokens", 4000)
	v.SetDefault("anthropic.temperature", 0.3)
	v.SetDefault("anthropic.max_retries", 3)

	v.SetDefault("search.provider", string(types.ProviderAuto))
	v.SetDefault("search.max_results_per_query", 3)

	v.SetDefault("fetching.timeout", 10*time.Second)
	v.SetDefault("fetching.retry_attempts", 2)
	v.SetDefault("fetching.max_content_words", 5000)

	v.SetDefault("agent.min_subqueries", 3)
	v.SetDefault("agent.max_subqueries", 5)
	v.SetDefault("agent.max_source_chars", 10000)

	v.SetDefault("output.report_dir", "reports")
	v.SetDefault("output.save_intermediate", false)
	v.SetDefault("output.archive_dir", "archive")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
}

// applySecrets fills credentials not already set by config or environment.
func applySecrets(cfg *types.Config, secrets map[string]string) {
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = secrets[SecretAnthropicKey]
	}
	if cfg.Search.GoogleAPIKey == "" {
		cfg.Search.GoogleAPIKey = secrets[SecretGoogleKey]
	}
	if cfg.Search.GoogleCSEID == "" {
		cfg.Search.GoogleCSEID = secrets[SecretGoogleCSEID]
	}
}

// Validate checks that the configuration is usable: an Anthropic key is
// present, the provider mode is known, and Google credentials exist when the
// provider is pinned to Google.
func Validate(cfg *types.Config) error {
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("anthropic API key not set; provide anthropic.api_key, RESEARCH_ASSISTANT_ANTHROPIC_API_KEY, or .secrets/%s", SecretAnthropicKey)
	}

	switch cfg.Search.Provider {
	case "", types.ProviderAuto, types.ProviderDuckDuckGo:
	case types.ProviderGoogle:
		if cfg.Search.GoogleAPIKey == "" || cfg.Search.GoogleCSEID == "" {
			return fmt.Errorf("search provider %q requires google_api_key and google_cse_id", cfg.Search.Provider)
		}
	default:
		return fmt.Errorf("unknown search provider %q", cfg.Search.Provider)
	}

	return nil
}

package types

import "time"

// AIConfig holds settings for stages that call the Anthropic API.
type AIConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxTokens caps the response length per call (default 4000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxRetries is the attempt budget for rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SearchProviderMode selects the web search backend.
type SearchProviderMode string

const (
	// ProviderAuto tries DuckDuckGo first and falls back to Google when the
	// primary returns no results and Google credentials are configured.
	ProviderAuto SearchProviderMode = "auto"

	// ProviderDuckDuckGo uses DuckDuckGo only, with no fallback.
	ProviderDuckDuckGo SearchProviderMode = "duckduckgo"

	// ProviderGoogle uses the Google Custom Search API only.
	ProviderGoogle SearchProviderMode = "google"
)

// SearchConfig holds settings for the web search stage.
type SearchConfig struct {
	// Provider selects the backend: auto, duckduckgo, or google.
	Provider SearchProviderMode `json:"provider" yaml:"provider" mapstructure:"provider"`

	// MaxResultsPerQuery is the number of results requested per sub-query (default 3).
	MaxResultsPerQuery int `json:"max_results_per_query" yaml:"max_results_per_query" mapstructure:"max_results_per_query"`

	// UserAgent is sent with search HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// GoogleAPIKey and GoogleCSEID are the Custom Search credentials.
	GoogleAPIKey string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty" mapstructure:"google_api_key"`
	GoogleCSEID  string `json:"google_cse_id,omitempty" yaml:"google_cse_id,omitempty" mapstructure:"google_cse_id"`
}

// FetchConfig holds settings for the content fetch stage.
type FetchConfig struct {
	// Timeout is the per-request HTTP timeout (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// RetryAttempts is the total attempt budget for retryable failures (default 2).
	RetryAttempts int `json:"retry_attempts" yaml:"retry_attempts" mapstructure:"retry_attempts"`

	// MaxContentWords truncates extracted text to this many words (default 5000).
	MaxContentWords int `json:"max_content_words" yaml:"max_content_words" mapstructure:"max_content_words"`

	// UserAgent is sent with fetch HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// AgentConfig holds decomposition and extraction bounds.
type AgentConfig struct {
	// MinSubQueries is the minimum acceptable decomposition size (default 3).
	// A smaller decomposition is discarded in favor of the original question.
	MinSubQueries int `json:"min_subqueries" yaml:"min_subqueries" mapstructure:"min_subqueries"`

	// MaxSubQueries is the maximum decomposition size (default 5); longer
	// lists are truncated.
	MaxSubQueries int `json:"max_subqueries" yaml:"max_subqueries" mapstructure:"max_subqueries"`

	// MaxSourceChars caps source content handed to the fact extractor prompt
	// (default 10000).
	MaxSourceChars int `json:"max_source_chars" yaml:"max_source_chars" mapstructure:"max_source_chars"`
}

// OutputConfig holds report persistence settings.
type OutputConfig struct {
	// ReportDir is where rendered reports are written (default "reports").
	ReportDir string `json:"report_dir" yaml:"report_dir" mapstructure:"report_dir"`

	// SaveIntermediate also writes the raw source list for debugging.
	SaveIntermediate bool `json:"save_intermediate" yaml:"save_intermediate" mapstructure:"save_intermediate"`

	// ArchiveDir is where the SQLite run archive lives (default "archive").
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir" mapstructure:"archive_dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File is an optional log file path; empty disables the file sink.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`

	// Console controls the stderr sink (default true).
	Console bool `json:"console" yaml:"console" mapstructure:"console"`
}

// Config groups all settings for the research assistant.
type Config struct {
	AI      AIConfig      `json:"anthropic" yaml:"anthropic" mapstructure:"anthropic"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Fetch   FetchConfig   `json:"fetching" yaml:"fetching" mapstructure:"fetching"`
	Agent   AgentConfig   `json:"agent" yaml:"agent" mapstructure:"agent"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

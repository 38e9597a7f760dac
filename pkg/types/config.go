package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RetryConfig bounds the retries the catalog transport performs on
// rate-limited or failed requests.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per request, including the first.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// BaseDelay is the wait before the first retry; it doubles per attempt.
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`

	// MaxDelay caps a single backoff wait.
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`
}

// CatalogConfig holds settings for the bibliographic catalog client.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the catalog API root (default https://api.semanticscholar.org).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is an optional API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// RateLimit is the maximum number of requests per second (default 1).
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// Retry configures the bounded retry policy.
	Retry RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`

	// CachePath is the SQLite response cache file. Empty disables caching.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty" mapstructure:"cache_path"`

	// CacheTTL is how long a cached response stays valid (default 24h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// ResolveConfig holds settings for reference resolution.
type ResolveConfig struct {
	// ReferenceLimit caps the number of reference edges fetched (default 50).
	ReferenceLimit int `json:"reference_limit" yaml:"reference_limit" mapstructure:"reference_limit"`
}

// Config groups all configuration sections.
type Config struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Resolve ResolveConfig `json:"resolve" yaml:"resolve" mapstructure:"resolve"`
}

// DefaultConfig returns the configuration used when no file, flag, or
// environment variable overrides a value.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "citation-engine/0.1",
			},
			BaseURL:   "https://api.semanticscholar.org",
			RateLimit: 1,
			Retry: RetryConfig{
				MaxAttempts: 10,
				BaseDelay:   1 * time.Second,
				MaxDelay:    30 * time.Second,
			},
			CacheTTL: 24 * time.Hour,
		},
		Resolve: ResolveConfig{
			ReferenceLimit: 50,
		},
	}
}

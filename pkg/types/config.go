// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "lineage-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RateLimitConfig holds the dual-window request budgets for one provider.
type RateLimitConfig struct {
	// RequestsPerMinute caps requests in any trailing 60-second window
	// (default 30). The minimum spacing between consecutive requests is
	// derived from it: 60s / RequestsPerMinute.
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute" mapstructure:"requests_per_minute"`

	// RequestsPerHour caps requests in any trailing 3600-second window
	// (default 1000).
	RequestsPerHour int `json:"requests_per_hour" yaml:"requests_per_hour" mapstructure:"requests_per_hour"`
}

// RetryConfig holds backoff settings for transient upstream failures.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, including the first
	// (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// BaseDelay is the delay before the first retry (default 1s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`

	// Multiplier scales the delay after each attempt (default 2.0).
	Multiplier float64 `json:"multiplier" yaml:"multiplier" mapstructure:"multiplier"`

	// MaxDelay caps the inter-attempt delay (default 60s).
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`
}

// CacheConfig holds settings for the query result cache.
type CacheConfig struct {
	// TTL is how long a cached result set stays visible (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`

	// MaxEntries caps the cache size; the oldest-inserted entry is evicted
	// first (default 1000, 0 disables the cap).
	MaxEntries int `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`

	// Path, when set, selects the persistent SQLite cache backend instead of
	// the in-memory store.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// SearchConfig holds settings for the search pipeline.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the provider's site root (default "https://www.familysearch.org").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// AccessToken is the bearer token for authenticated endpoints, loaded
	// from secrets. Providers that do not need it ignore it.
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty" mapstructure:"access_token"`

	// MaxResults is the maximum number of merged results to return (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// EnableRecords controls whether the records search provider is used.
	EnableRecords bool `json:"enable_records" yaml:"enable_records" mapstructure:"enable_records"`

	// EnableCollections controls whether the collections catalog provider is used.
	EnableCollections bool `json:"enable_collections" yaml:"enable_collections" mapstructure:"enable_collections"`

	// DedupThreshold is the name-similarity ratio above which two records are
	// treated as the same entity (default 0.90).
	DedupThreshold float64 `json:"dedup_threshold" yaml:"dedup_threshold" mapstructure:"dedup_threshold"`

	// CollectionFloor is the minimum confidence assigned to collection-catalog
	// entries (default 0.60).
	CollectionFloor float64 `json:"collection_floor" yaml:"collection_floor" mapstructure:"collection_floor"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`
	Retry     RetryConfig     `json:"retry" yaml:"retry" mapstructure:"retry"`
	Cache     CacheConfig     `json:"cache" yaml:"cache" mapstructure:"cache"`
}

// DefaultConfig returns the reference configuration: 30 requests/minute,
// 1000 requests/hour, a 1-hour cache, and 3 attempts with doubling backoff.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "lineage-engine/0.1",
			},
			BaseURL:           "https://www.familysearch.org",
			MaxResults:        20,
			EnableRecords:     true,
			EnableCollections: false,
			DedupThreshold:    0.90,
			CollectionFloor:   0.60,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			RequestsPerHour:   1000,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			Multiplier:  2.0,
			MaxDelay:    60 * time.Second,
		},
		Cache: CacheConfig{
			TTL:        time.Hour,
			MaxEntries: 1000,
		},
	}
}

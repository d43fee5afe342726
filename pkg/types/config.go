// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// HTTPConfig holds shared HTTP settings used by every upstream client.
type HTTPConfig struct {
	// Timeout bounds a single upstream call, including the body read.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubfetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of backoff retries on HTTP 429. Zero uses the
	// httputil default; a negative value disables retrying.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// DiscoveryConfig holds settings for the ORCID works lookup.
type DiscoveryConfig struct {
	// BaseURL is the ORCID public API root (default https://pub.orcid.org/v3.0/).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// CrossRefConfig holds settings for the CrossRef metadata resolver.
type CrossRefConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Mailto is sent as the mailto parameter for CrossRef's polite pool.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`

	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// AltmetricConfig holds settings for the Altmetric engagement resolver.
type AltmetricConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is optional; the public endpoint works without it at a lower rate.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// CacheBackend selects where memoized upstream results live.
type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheSQLite CacheBackend = "sqlite"
)

// CacheConfig holds settings for the memoized fetch store.
type CacheConfig struct {
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Path is the SQLite database file used by the sqlite backend.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// PipelineConfig groups the settings for one aggregation run.
type PipelineConfig struct {
	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`

	// Workers bounds how many DOIs are resolved concurrently.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery" mapstructure:"discovery"`
	CrossRef  CrossRefConfig  `json:"crossref" yaml:"crossref" mapstructure:"crossref"`
	Altmetric AltmetricConfig `json:"altmetric" yaml:"altmetric" mapstructure:"altmetric"`
	Cache     CacheConfig     `json:"cache" yaml:"cache" mapstructure:"cache"`
}

const (
	DefaultWorkers    = 8
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultUserAgent  = "pubfetch/0.1"
)

// DefaultCachePath returns the per-user SQLite cache location,
// $XDG_CACHE_HOME/pubfetch/cache.db.
func DefaultCachePath() string {
	return filepath.Join(xdg.CacheHome, "pubfetch", "cache.db")
}

// DefaultPipelineConfig returns the configuration used when no file, env
// var, or flag overrides a value.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		HTTP: HTTPConfig{
			Timeout:    DefaultTimeout,
			UserAgent:  DefaultUserAgent,
			MaxRetries: DefaultMaxRetries,
		},
		Workers:   DefaultWorkers,
		Discovery: DiscoveryConfig{BaseURL: "https://pub.orcid.org/v3.0/"},
		CrossRef:  CrossRefConfig{BaseURL: "https://api.crossref.org/works/", Enabled: true},
		Altmetric: AltmetricConfig{BaseURL: "https://api.altmetric.com/v1/doi/", Enabled: true},
		Cache: CacheConfig{
			Backend: CacheSQLite,
			Path:    DefaultCachePath(),
		},
	}
}

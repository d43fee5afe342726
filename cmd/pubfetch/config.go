// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/viper"

	"github.com/pdiddy/pubfetch/internal/altmetric"
	"github.com/pdiddy/pubfetch/internal/crossref"
	"github.com/pdiddy/pubfetch/internal/memo"
	"github.com/pdiddy/pubfetch/internal/orcid"
	"github.com/pdiddy/pubfetch/internal/pipeline"
	"github.com/pdiddy/pubfetch/internal/secrets"
	"github.com/pdiddy/pubfetch/pkg/types"
)

// setDefaults registers every config key so env vars and Unmarshal see them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()
	v.SetDefault("workers", d.Workers)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_retries", d.HTTP.MaxRetries)
	v.SetDefault("discovery.base_url", d.Discovery.BaseURL)
	v.SetDefault("crossref.base_url", d.CrossRef.BaseURL)
	v.SetDefault("crossref.mailto", d.CrossRef.Mailto)
	v.SetDefault("crossref.enabled", d.CrossRef.Enabled)
	v.SetDefault("altmetric.base_url", d.Altmetric.BaseURL)
	v.SetDefault("altmetric.api_key", d.Altmetric.APIKey)
	v.SetDefault("altmetric.enabled", d.Altmetric.Enabled)
	v.SetDefault("cache.backend", string(d.Cache.Backend))
	v.SetDefault("cache.path", d.Cache.Path)
}

// loadPipelineConfig reads the pipeline settings from v and fills missing
// credentials from s.
func loadPipelineConfig(v *viper.Viper, s secrets.Set) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.CrossRef.Mailto = s.Or(secrets.CrossRefMailto, cfg.CrossRef.Mailto)
	cfg.Altmetric.APIKey = s.Or(secrets.AltmetricAPIKey, cfg.Altmetric.APIKey)

	if cfg.Workers < 1 {
		return cfg, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	switch cfg.Cache.Backend {
	case types.CacheMemory, types.CacheSQLite:
	default:
		return cfg, fmt.Errorf("unknown cache backend %q (want memory or sqlite)", cfg.Cache.Backend)
	}
	return cfg, nil
}

// openStore opens the memo store selected by cfg. The returned close
// function is always non-nil.
func openStore(cfg types.CacheConfig) (memo.Store, func() error, error) {
	if cfg.Backend == types.CacheMemory {
		return memo.NewMemoryStore(), func() error { return nil }, nil
	}
	s, err := memo.OpenSQLite(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("opened cache", "path", s.Path())
	return s, s.Close, nil
}

// buildAggregator wires the upstream clients described by cfg around store.
func buildAggregator(cfg types.PipelineConfig, store memo.Store, logger *slog.Logger) *pipeline.Aggregator {
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	cache := memo.NewClient(store, cfg.HTTP.Timeout)

	agg := &pipeline.Aggregator{
		Discovery:        orcid.NewClient(httpClient, cfg.Discovery, cfg.HTTP),
		Workers:          cfg.Workers,
		DiscoveryTimeout: cfg.HTTP.Timeout,
		Logger:           logger,
	}
	if cfg.CrossRef.Enabled {
		agg.Works = crossref.NewResolver(httpClient, cfg.CrossRef, cfg.HTTP, cache)
	}
	if cfg.Altmetric.Enabled {
		agg.Engagement = altmetric.NewResolver(httpClient, cfg.Altmetric, cfg.HTTP, cache)
	}
	return agg
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package altmetric resolves a DOI to attention metrics through the
// Altmetric details API.
package altmetric

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pdiddy/pubfetch/internal/httputil"
	"github.com/pdiddy/pubfetch/internal/memo"
	"github.com/pdiddy/pubfetch/internal/reqlog"
	"github.com/pdiddy/pubfetch/pkg/types"
)

// SourceName keys Altmetric results in the memo cache.
const SourceName = "altmetric"

// DefaultBaseURL is the Altmetric DOI lookup endpoint.
const DefaultBaseURL = "https://api.altmetric.com/v1/doi/"

// Resolver looks up Altmetric records, memoized per DOI.
type Resolver struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	Config  types.HTTPConfig
	Cache   *memo.Client
}

// NewResolver returns a Resolver for the configured endpoint.
func NewResolver(httpClient *http.Client, cfg types.AltmetricConfig, httpCfg types.HTTPConfig, cache *memo.Client) *Resolver {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Resolver{HTTP: httpClient, BaseURL: base, APIKey: cfg.APIKey, Config: httpCfg, Cache: cache}
}

// Resolve returns the engagement metrics for doi. Altmetric answers 404 for
// DOIs it has never seen; that and every other failure yields an empty
// EngagementMetadata.
func (r *Resolver) Resolve(ctx context.Context, doi string) types.EngagementMetadata {
	rec, err := memo.Fetch(ctx, r.Cache, SourceName, doi, func(ctx context.Context) (Record, error) {
		return r.fetch(ctx, doi)
	})
	if err != nil {
		reqlog.From(ctx).Warn("altmetric data unavailable", "doi", doi, "err", err)
		return types.EngagementMetadata{}
	}
	return Extract(rec)
}

func (r *Resolver) fetch(ctx context.Context, doi string) (Record, error) {
	apiURL := httputil.DOIURL(r.BaseURL, doi)
	if r.APIKey != "" {
		apiURL += "?" + url.Values{"key": {r.APIKey}}.Encode()
	}

	var rec Record
	if err := httputil.GetJSON(ctx, r.HTTP, "Altmetric", apiURL, r.Config, nil, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Record is the subset of an Altmetric details record that Extract reads.
type Record struct {
	Score        *float64 `json:"score,omitempty"`
	ReadersCount *int     `json:"readers_count,omitempty"`
	Images       *Images  `json:"images,omitempty"`
	DetailsURL   string   `json:"details_url,omitempty"`
}

// Images holds the badge image URLs.
type Images struct {
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// Extract flattens an Altmetric record into EngagementMetadata.
func Extract(rec Record) types.EngagementMetadata {
	m := types.EngagementMetadata{
		Score:        rec.Score,
		ReadersCount: rec.ReadersCount,
	}
	if rec.Images != nil && rec.Images.Small != "" {
		small := rec.Images.Small
		m.ImageURL = &small
	}
	if rec.DetailsURL != "" {
		details := rec.DetailsURL
		m.DetailsURL = &details
	}
	return m
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref resolves a DOI to bibliographic metadata through the
// CrossRef works API.
package crossref

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pdiddy/pubfetch/internal/httputil"
	"github.com/pdiddy/pubfetch/internal/memo"
	"github.com/pdiddy/pubfetch/internal/reqlog"
	"github.com/pdiddy/pubfetch/pkg/types"
)

// SourceName keys CrossRef results in the memo cache.
const SourceName = "crossref"

// DefaultBaseURL is the CrossRef works endpoint.
const DefaultBaseURL = "https://api.crossref.org/works/"

// Resolver looks up CrossRef work records, memoized per DOI.
type Resolver struct {
	HTTP    *http.Client
	BaseURL string
	Mailto  string
	Config  types.HTTPConfig
	Cache   *memo.Client
}

// NewResolver returns a Resolver for the configured endpoint.
func NewResolver(httpClient *http.Client, cfg types.CrossRefConfig, httpCfg types.HTTPConfig, cache *memo.Client) *Resolver {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Resolver{HTTP: httpClient, BaseURL: base, Mailto: cfg.Mailto, Config: httpCfg, Cache: cache}
}

// Resolve returns the metadata for doi. Lookup failures are logged and
// yield an empty WorkMetadata; they never abort the caller.
func (r *Resolver) Resolve(ctx context.Context, doi string) types.WorkMetadata {
	work, err := memo.Fetch(ctx, r.Cache, SourceName, doi, func(ctx context.Context) (Work, error) {
		return r.fetch(ctx, doi)
	})
	if err != nil {
		reqlog.From(ctx).Warn("crossref metadata unavailable", "doi", doi, "err", err)
		return types.WorkMetadata{}
	}
	return Extract(work)
}

func (r *Resolver) fetch(ctx context.Context, doi string) (Work, error) {
	apiURL := httputil.DOIURL(r.BaseURL, doi)
	if r.Mailto != "" {
		apiURL += "?" + url.Values{"mailto": {r.Mailto}}.Encode()
	}

	var resp response
	if err := httputil.GetJSON(ctx, r.HTTP, "CrossRef", apiURL, r.Config, nil, &resp); err != nil {
		return Work{}, err
	}
	return resp.Message, nil
}

// CrossRef API JSON structures.
type response struct {
	Status  string `json:"status"`
	Message Work   `json:"message"`
}

// Work is the subset of a CrossRef work record that Extract reads.
type Work struct {
	Title               []string `json:"title,omitempty"`
	Author              []Author `json:"author,omitempty"`
	Created             *Date    `json:"created,omitempty"`
	Published           *Date    `json:"published,omitempty"`
	ContainerTitle      []string `json:"container-title,omitempty"`
	ShortContainerTitle []string `json:"short-container-title,omitempty"`
	Language            string   `json:"language,omitempty"`
	Volume              string   `json:"volume,omitempty"`
	Issue               string   `json:"issue,omitempty"`
	Page                string   `json:"page,omitempty"`
	Publisher           string   `json:"publisher,omitempty"`
	Type                string   `json:"type,omitempty"`
	Subject             []string `json:"subject,omitempty"`
	Funder              []Funder `json:"funder,omitempty"`
	IsReferencedByCount *int     `json:"is-referenced-by-count,omitempty"`
	Source              string   `json:"source,omitempty"`
}

// Author is one contributor; ORCID is a URL when present.
type Author struct {
	Given  string `json:"given,omitempty"`
	Family string `json:"family,omitempty"`
	ORCID  string `json:"ORCID,omitempty"`
}

// Date holds CrossRef date-parts, e.g. [[2019, 3, 14]]. Parts may be null.
type Date struct {
	DateParts [][]*int `json:"date-parts"`
}

// Funder is one funding body listed on the work.
type Funder struct {
	Name  string   `json:"name,omitempty"`
	DOI   string   `json:"DOI,omitempty"`
	Award []string `json:"award,omitempty"`
}

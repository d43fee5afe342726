// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orcid

import (
	"context"
	"net/http"
	"strings"

	"github.com/pdiddy/pubfetch/internal/httputil"
	"github.com/pdiddy/pubfetch/pkg/types"
)

// DefaultBaseURL is the ORCID public API root.
const DefaultBaseURL = "https://pub.orcid.org/v3.0/"

// doiType is the external-id-type ORCID uses for DOIs.
const doiType = "doi"

// Client lists the works of an ORCID record.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Config  types.HTTPConfig
}

// NewClient returns a Client for the configured API root.
func NewClient(httpClient *http.Client, cfg types.DiscoveryConfig, httpCfg types.HTTPConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{HTTP: httpClient, BaseURL: base, Config: httpCfg}
}

// Discover returns the DOIs listed on id's works, in ORCID's order.
// Works without a DOI contribute nothing; repeated DOIs are kept. A record
// with no works yields an empty, non-nil slice.
func (c *Client) Discover(ctx context.Context, id ID) ([]string, error) {
	url := strings.TrimSuffix(c.BaseURL, "/") + "/" + string(id) + "/works"

	var resp worksResponse
	if err := httputil.GetJSON(ctx, c.HTTP, "ORCID", url, c.Config, nil, &resp); err != nil {
		return nil, err
	}
	return extractDOIs(resp), nil
}

// extractDOIs reads the DOI-tagged external ids from the first summary of
// each work group.
func extractDOIs(resp worksResponse) []string {
	dois := []string{}
	for _, group := range resp.Group {
		if len(group.WorkSummary) == 0 {
			continue
		}
		summary := group.WorkSummary[0]
		if summary.ExternalIDs == nil {
			continue
		}
		for _, ext := range summary.ExternalIDs.ExternalID {
			if ext.Type == doiType && ext.Value != "" {
				dois = append(dois, ext.Value)
			}
		}
	}
	return dois
}

// ORCID works API JSON structures.
type worksResponse struct {
	Group []workGroup `json:"group"`
}

type workGroup struct {
	WorkSummary []workSummary `json:"work-summary"`
}

type workSummary struct {
	PutCode     int          `json:"put-code"`
	ExternalIDs *externalIDs `json:"external-ids"`
}

type externalIDs struct {
	ExternalID []externalID `json:"external-id"`
}

type externalID struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/url"
	"strings"
)

// DOIURL appends doi to base as path segments. The slash between a DOI's
// prefix and suffix stays literal; characters inside a segment are
// escaped.
func DOIURL(base, doi string) string {
	parts := strings.Split(doi, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(parts, "/")
}

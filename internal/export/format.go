// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pubfetch/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records types.PublicationCollection, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No publications found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-30s  %-50s  %-4s  %-9s  %s\n",
		"#", "DOI", "Title", "Year", "Citations", "Altmetric")
	fmt.Fprintln(w, strings.Repeat("-", 115))

	for i, r := range records {
		year := num(r.PublishedYear)
		if year == "" {
			year = num(r.CreatedYear)
		}
		fmt.Fprintf(w, "%-4d  %-30s  %-50s  %-4s  %-9s  %s\n",
			i+1, truncate(r.DOI, 30), truncate(str(r.Title), 50), year,
			num(r.CitationCount), decimal(r.AltmetricScore))
	}

	fmt.Fprintf(w, "\n%d publications", len(records))
	if n := countDegraded(records); n > 0 {
		fmt.Fprintf(w, " (%d without CrossRef metadata)", n)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records types.PublicationCollection, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func countDegraded(records types.PublicationCollection) int {
	n := 0
	for _, r := range records {
		if r.Title == nil {
			n++
		}
	}
	return n
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

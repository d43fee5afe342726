// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"strings"

	"github.com/pdiddy/pubfetch/pkg/types"
)

// Extract flattens a CrossRef work into WorkMetadata. Absent fields and
// empty lists become nil. Authors lacking a given or a family name are left
// out of the joined author string.
func Extract(w Work) types.WorkMetadata {
	return types.WorkMetadata{
		Title:         first(w.Title),
		Authors:       joinAuthors(w.Author),
		AuthorNames:   authorNames(w.Author),
		CreatedYear:   year(w.Created),
		PublishedYear: year(w.Published),
		Journal:       first(w.ContainerTitle),
		JournalAbbr:   first(w.ShortContainerTitle),
		Language:      str(w.Language),
		Volume:        str(w.Volume),
		Issue:         str(w.Issue),
		Pages:         str(w.Page),
		Publisher:     str(w.Publisher),
		Type:          str(w.Type),
		Subjects:      nonEmpty(w.Subject),
		Funders:       funderNames(w.Funder),
		CitationCount: w.IsReferencedByCount,
		Source:        str(w.Source),
	}
}

func str(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func first(list []string) *string {
	for _, s := range list {
		if p := str(s); p != nil {
			return p
		}
	}
	return nil
}

// year returns the first element of the first date-parts entry.
func year(d *Date) *int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return nil
	}
	return d.DateParts[0][0]
}

// authorNames returns the authors that carry both a given and a family name.
func authorNames(authors []Author) []types.PersonName {
	var names []types.PersonName
	for _, a := range authors {
		given, family := strings.TrimSpace(a.Given), strings.TrimSpace(a.Family)
		if given == "" || family == "" {
			continue
		}
		names = append(names, types.PersonName{Given: given, Family: family})
	}
	return names
}

func joinAuthors(authors []Author) *string {
	names := authorNames(authors)
	if len(names) == 0 {
		return nil
	}
	full := make([]string, len(names))
	for i, n := range names {
		full[i] = n.Given + " " + n.Family
	}
	joined := strings.Join(full, ", ")
	return &joined
}

func funderNames(funders []Funder) []string {
	var names []string
	for _, f := range funders {
		if n := strings.TrimSpace(f.Name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func nonEmpty(list []string) []string {
	var out []string
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

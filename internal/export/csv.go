// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders a PublicationCollection for download and display:
// CSV (the download format), CSL-YAML, JSON, a terminal table, and saved
// YAML result files that can be exported later without re-querying.
package export

import (
	"bytes"
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/pubfetch/pkg/types"
)

// Header is the CSV column list, in output order.
var Header = []string{
	"DOI",
	"Title",
	"Authors Name",
	"Created Year",
	"Published Year",
	"Journal Abbr",
	"Journal",
	"Language",
	"Volume",
	"Issue",
	"Pages",
	"Publisher",
	"Publication Type",
	"Subject",
	"Funders",
	"Citation count",
	"Source",
	"Altmetric Score",
	"Altmetric Read Count",
	"Altmetric Image",
	"Altmetric URL",
}

// listSep joins list-valued fields inside one cell.
const listSep = "; "

// CSV serializes records with Header as the first row. Nil fields are
// empty cells. Output is identical for identical input.
func CSV(records types.PublicationCollection) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func row(r types.PublicationRecord) []string {
	return []string{
		r.DOI,
		str(r.Title),
		str(r.Authors),
		num(r.CreatedYear),
		num(r.PublishedYear),
		str(r.JournalAbbr),
		str(r.Journal),
		str(r.Language),
		str(r.Volume),
		str(r.Issue),
		str(r.Pages),
		str(r.Publisher),
		str(r.Type),
		strings.Join(r.Subjects, listSep),
		strings.Join(r.Funders, listSep),
		num(r.CitationCount),
		str(r.Source),
		decimal(r.AltmetricScore),
		num(r.AltmetricReaders),
		str(r.AltmetricImage),
		str(r.AltmetricURL),
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func decimal(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Filename returns the download name for an ORCID iD's CSV: every character
// outside [A-Za-z0-9_-] becomes "_".
func Filename(orcidID string) string {
	return unsafeFilenameChars.ReplaceAllString(orcidID, "_") + "_publications_list.csv"
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubfetch/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Language       string    `yaml:"language,omitempty"`
	DOI            string    `yaml:"DOI"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps CrossRef work types to CSL item types.
var cslTypes = map[string]string{
	"journal-article":     "article-journal",
	"proceedings-article": "paper-conference",
	"book-chapter":        "chapter",
	"book":                "book",
	"monograph":           "book",
	"edited-book":         "book",
	"reference-entry":     "entry",
	"dissertation":        "thesis",
	"report":              "report",
	"dataset":             "dataset",
	"posted-content":      "article",
}

// FormatCSL writes records as a CSL-YAML list to w.
func FormatCSL(records types.PublicationCollection, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(r types.PublicationRecord) CSLItem {
	item := CSLItem{
		ID:             r.DOI,
		Type:           "article",
		Title:          str(r.Title),
		ContainerTitle: str(r.Journal),
		Publisher:      str(r.Publisher),
		Volume:         str(r.Volume),
		Issue:          str(r.Issue),
		Page:           str(r.Pages),
		Language:       str(r.Language),
		DOI:            r.DOI,
	}
	if r.Type != nil {
		if t, ok := cslTypes[*r.Type]; ok {
			item.Type = t
		}
	}

	switch {
	case len(r.AuthorNames) > 0:
		for _, n := range r.AuthorNames {
			item.Author = append(item.Author, CSLName{Given: n.Given, Family: n.Family})
		}
	case r.Authors != nil:
		for _, a := range strings.Split(*r.Authors, ", ") {
			if name := parseAuthorName(a); name != (CSLName{}) {
				item.Author = append(item.Author, name)
			}
		}
	}

	year := r.PublishedYear
	if year == nil {
		year = r.CreatedYear
	}
	if year != nil {
		item.Issued = &CSLDate{DateParts: [][]int{{*year}}}
	}
	return item
}

// parseAuthorName splits a full name on its last space into CSL given and
// family parts; single-token names use the literal field. It is only used
// for records that carry no structured author names.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

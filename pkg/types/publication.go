// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubfetch pipeline:
// the per-source metadata bags returned by the resolvers, the compiled
// PublicationRecord, and the ordered PublicationCollection handed to callers
// and exporters.
package types

// WorkMetadata is the bag extracted from a CrossRef work record. Every field
// is nil when the source omitted it or the lookup failed.
type WorkMetadata struct {
	Title         *string      `json:"title,omitempty" yaml:"title,omitempty"`
	Authors       *string      `json:"authors,omitempty" yaml:"authors,omitempty"`
	AuthorNames   []PersonName `json:"-" yaml:"-"`
	CreatedYear   *int         `json:"created_year,omitempty" yaml:"created_year,omitempty"`
	PublishedYear *int         `json:"published_year,omitempty" yaml:"published_year,omitempty"`
	Journal       *string      `json:"journal,omitempty" yaml:"journal,omitempty"`
	JournalAbbr   *string      `json:"journal_abbr,omitempty" yaml:"journal_abbr,omitempty"`
	Language      *string      `json:"language,omitempty" yaml:"language,omitempty"`
	Volume        *string      `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue         *string      `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages         *string      `json:"pages,omitempty" yaml:"pages,omitempty"`
	Publisher     *string      `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Type          *string      `json:"type,omitempty" yaml:"type,omitempty"`
	Subjects      []string     `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	Funders       []string     `json:"funders,omitempty" yaml:"funders,omitempty"`
	CitationCount *int         `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
	Source        *string      `json:"source,omitempty" yaml:"source,omitempty"`
}

// PersonName is an author as CrossRef splits it.
type PersonName struct {
	Given  string `json:"given" yaml:"given"`
	Family string `json:"family" yaml:"family"`
}

// EngagementMetadata is the bag extracted from an Altmetric record.
type EngagementMetadata struct {
	Score        *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	ReadersCount *int     `json:"readers_count,omitempty" yaml:"readers_count,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	DetailsURL   *string  `json:"details_url,omitempty" yaml:"details_url,omitempty"`
}

// PublicationRecord is one row of the result: the DOI plus the fields
// contributed by each metadata source. DOI is always set; every other field
// is independently nullable.
type PublicationRecord struct {
	DOI string `json:"doi" yaml:"doi"`

	Title   *string `json:"title" yaml:"title"`
	Authors *string `json:"authors" yaml:"authors"`

	// AuthorNames keeps the structured names behind Authors for citation
	// output. It is not a CSV or JSON column.
	AuthorNames []PersonName `json:"-" yaml:"author_names,omitempty"`

	CreatedYear   *int     `json:"created_year" yaml:"created_year"`
	PublishedYear *int     `json:"published_year" yaml:"published_year"`
	Journal       *string  `json:"journal" yaml:"journal"`
	JournalAbbr   *string  `json:"journal_abbr" yaml:"journal_abbr"`
	Language      *string  `json:"language" yaml:"language"`
	Volume        *string  `json:"volume" yaml:"volume"`
	Issue         *string  `json:"issue" yaml:"issue"`
	Pages         *string  `json:"pages" yaml:"pages"`
	Publisher     *string  `json:"publisher" yaml:"publisher"`
	Type          *string  `json:"type" yaml:"type"`
	Subjects      []string `json:"subjects" yaml:"subjects"`
	Funders       []string `json:"funders" yaml:"funders"`
	CitationCount *int     `json:"citation_count" yaml:"citation_count"`
	Source        *string  `json:"source" yaml:"source"`

	AltmetricScore   *float64 `json:"altmetric_score" yaml:"altmetric_score"`
	AltmetricReaders *int     `json:"altmetric_readers" yaml:"altmetric_readers"`
	AltmetricImage   *string  `json:"altmetric_image" yaml:"altmetric_image"`
	AltmetricURL     *string  `json:"altmetric_url" yaml:"altmetric_url"`
}

// PublicationCollection is the ordered result for one ORCID iD. Order is
// the order in which the works service listed the DOIs.
type PublicationCollection []PublicationRecord

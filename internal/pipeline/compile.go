// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/pdiddy/pubfetch/pkg/types"

// Compile merges the CrossRef and Altmetric bags for doi into one record.
// The two bags fill disjoint fields; empty bags leave their fields nil.
func Compile(doi string, work types.WorkMetadata, eng types.EngagementMetadata) types.PublicationRecord {
	return types.PublicationRecord{
		DOI: doi,

		Title:         work.Title,
		Authors:       work.Authors,
		AuthorNames:   work.AuthorNames,
		CreatedYear:   work.CreatedYear,
		PublishedYear: work.PublishedYear,
		Journal:       work.Journal,
		JournalAbbr:   work.JournalAbbr,
		Language:      work.Language,
		Volume:        work.Volume,
		Issue:         work.Issue,
		Pages:         work.Pages,
		Publisher:     work.Publisher,
		Type:          work.Type,
		Subjects:      work.Subjects,
		Funders:       work.Funders,
		CitationCount: work.CitationCount,
		Source:        work.Source,

		AltmetricScore:   eng.Score,
		AltmetricReaders: eng.ReadersCount,
		AltmetricImage:   eng.ImageURL,
		AltmetricURL:     eng.DetailsURL,
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubfetch/pkg/types"
)

// ResultFile is the on-disk form of one aggregation. A saved result can be
// exported later without querying the upstream APIs again.
type ResultFile struct {
	ORCID     string                      `yaml:"orcid"`
	RequestID string                      `yaml:"request_id,omitempty"`
	Records   types.PublicationCollection `yaml:"records"`
	Summary   ResultSummary               `yaml:"summary"`
}

// ResultSummary stores coverage counts and a timestamp.
type ResultSummary struct {
	Total         int       `yaml:"total"`
	WithCrossRef  int       `yaml:"with_crossref"`
	WithAltmetric int       `yaml:"with_altmetric"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// NewResultFile builds a ResultFile and its summary.
func NewResultFile(orcidID, requestID string, records types.PublicationCollection) ResultFile {
	rf := ResultFile{
		ORCID:     orcidID,
		RequestID: requestID,
		Records:   records,
		Summary:   ResultSummary{Total: len(records), Timestamp: time.Now().UTC()},
	}
	for _, r := range records {
		if r.Title != nil {
			rf.Summary.WithCrossRef++
		}
		if r.AltmetricScore != nil {
			rf.Summary.WithAltmetric++
		}
	}
	return rf
}

// WriteResultFile saves rf to path as YAML.
func WriteResultFile(path string, rf ResultFile) error {
	data, err := yaml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	return nil
}

// ReadResultFile loads a result file written by WriteResultFile.
func ReadResultFile(path string) (ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultFile{}, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return ResultFile{}, fmt.Errorf("parsing result file %s: %w", path, err)
	}
	if rf.ORCID == "" {
		return ResultFile{}, fmt.Errorf("result file %s has no orcid", path)
	}
	return rf, nil
}

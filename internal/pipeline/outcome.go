// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"

	"github.com/pdiddy/pubfetch/internal/orcid"
)

// Outcome is the user-facing class of a pipeline run.
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeEmpty
	OutcomeInvalid
	OutcomeFailed
	OutcomeAbandoned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeEmpty:
		return "empty"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Message returns the text a caller shows for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeFound:
		return "Publications found."
	case OutcomeEmpty:
		return "No publications found for this ORCID iD."
	case OutcomeInvalid:
		return "Invalid ORCID iD. Expected the form 0000-0002-1825-0097."
	case OutcomeFailed:
		return "Could not fetch the works for this ORCID iD. Try again later."
	case OutcomeAbandoned:
		return "Request was cancelled."
	default:
		return ""
	}
}

// Classify maps the return values of Run or Aggregate to an Outcome.
// A failed fetch is never reported as empty.
func Classify(res Result, err error) Outcome {
	switch {
	case err == nil && res.Empty():
		return OutcomeEmpty
	case err == nil:
		return OutcomeFound
	case errors.Is(err, orcid.ErrInvalidFormat):
		return OutcomeInvalid
	case errors.Is(err, ErrDiscoveryFailed):
		return OutcomeFailed
	case errors.Is(err, ErrSuperseded), errors.Is(err, context.Canceled):
		return OutcomeAbandoned
	default:
		return OutcomeFailed
	}
}

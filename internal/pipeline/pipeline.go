// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline turns an ORCID iD into an ordered PublicationCollection:
// discover the DOIs on the record, resolve each DOI against CrossRef and
// Altmetric concurrently, and compile one record per DOI in discovery order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pubfetch/internal/orcid"
	"github.com/pdiddy/pubfetch/internal/reqlog"
	"github.com/pdiddy/pubfetch/pkg/types"
)

// ErrDiscoveryFailed wraps any failure to list the works of an ORCID record.
// No collection accompanies it.
var ErrDiscoveryFailed = errors.New("discovering works failed")

// Discoverer lists the DOIs on an ORCID record in upstream order.
type Discoverer interface {
	Discover(ctx context.Context, id orcid.ID) ([]string, error)
}

// WorkResolver returns bibliographic metadata for a DOI. It never fails;
// an unavailable record is an empty bag.
type WorkResolver interface {
	Resolve(ctx context.Context, doi string) types.WorkMetadata
}

// EngagementResolver returns attention metrics for a DOI. It never fails.
type EngagementResolver interface {
	Resolve(ctx context.Context, doi string) types.EngagementMetadata
}

// Result is a successful aggregation. Records is empty, never nil, when the
// ORCID record lists no DOIs.
type Result struct {
	ORCID     orcid.ID
	RequestID string
	Records   types.PublicationCollection
}

// Empty reports whether the record listed no DOIs.
func (r Result) Empty() bool { return len(r.Records) == 0 }

// Aggregator runs discovery and the per-DOI fan-out.
type Aggregator struct {
	Discovery Discoverer

	// Works and Engagement may be nil to skip a source; its fields stay nil.
	Works      WorkResolver
	Engagement EngagementResolver

	// Workers bounds the number of DOIs resolved at once (default 8).
	Workers int

	// DiscoveryTimeout bounds the discovery call; zero means no extra deadline.
	DiscoveryTimeout time.Duration

	Logger *slog.Logger
}

// Run validates raw and aggregates it. Invalid input returns an error
// wrapping orcid.ErrInvalidFormat before any upstream is contacted.
func (a *Aggregator) Run(ctx context.Context, raw string) (Result, error) {
	id, err := orcid.Validate(raw)
	if err != nil {
		return Result{}, err
	}
	return a.Aggregate(ctx, id)
}

// Aggregate builds the collection for id. Only a discovery failure is
// fatal; resolver failures leave nil fields in the affected records. If ctx
// ends before the fan-out completes, Aggregate returns ctx's error and no
// records.
func (a *Aggregator) Aggregate(ctx context.Context, id orcid.ID) (Result, error) {
	requestID := uuid.NewString()
	log := a.logger().With("request_id", requestID, "orcid", id.String())
	ctx = reqlog.With(ctx, log)
	start := time.Now()

	dois, err := a.discover(ctx, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug("request abandoned during discovery", "err", ctxErr)
			return Result{}, ctxErr
		}
		log.Warn("discovery failed", "err", err)
		return Result{}, fmt.Errorf("%w for %s: %w", ErrDiscoveryFailed, id, err)
	}

	res := Result{ORCID: id, RequestID: requestID, Records: types.PublicationCollection{}}
	if len(dois) == 0 {
		log.Info("no works with a DOI")
		return res, nil
	}
	log.Debug("discovered works", "dois", len(dois))

	records := make(types.PublicationCollection, len(dois))
	var g errgroup.Group
	g.SetLimit(a.workers())
	for i, doi := range dois {
		if ctx.Err() != nil {
			break
		}
		i, doi := i, doi
		g.Go(func() error {
			records[i] = a.resolve(ctx, doi)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		log.Debug("request abandoned", "err", err)
		return Result{}, err
	}

	res.Records = records
	log.Info("aggregated publications", "records", len(records), "elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (a *Aggregator) discover(ctx context.Context, id orcid.ID) ([]string, error) {
	if a.DiscoveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.DiscoveryTimeout)
		defer cancel()
	}
	return a.Discovery.Discover(ctx, id)
}

// resolve runs both resolvers for doi concurrently and compiles the record
// once both have returned.
func (a *Aggregator) resolve(ctx context.Context, doi string) types.PublicationRecord {
	var (
		work types.WorkMetadata
		eng  types.EngagementMetadata
		wg   sync.WaitGroup
	)
	if a.Works != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work = a.Works.Resolve(ctx, doi)
		}()
	}
	if a.Engagement != nil {
		eng = a.Engagement.Resolve(ctx, doi)
	}
	wg.Wait()
	return Compile(doi, work, eng)
}

func (a *Aggregator) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return types.DefaultWorkers
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

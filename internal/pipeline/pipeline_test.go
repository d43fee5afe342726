// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubfetch/internal/orcid"
	"github.com/pdiddy/pubfetch/pkg/types"
)

func ptr[T any](v T) *T { return &v }

// --- stubs ---

type stubDiscovery struct {
	calls int32
	dois  []string
	err   error
	block bool
}

func (s *stubDiscovery) Discover(ctx context.Context, _ orcid.ID) ([]string, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.dois, s.err
}

type stubWorks struct {
	titles map[string]string
	delay  func(doi string) time.Duration
	calls  int32
}

func (s *stubWorks) Resolve(ctx context.Context, doi string) types.WorkMetadata {
	atomic.AddInt32(&s.calls, 1)
	if s.delay != nil {
		select {
		case <-time.After(s.delay(doi)):
		case <-ctx.Done():
			return types.WorkMetadata{}
		}
	}
	title, ok := s.titles[doi]
	if !ok {
		return types.WorkMetadata{}
	}
	return types.WorkMetadata{Title: &title}
}

type stubEngagement struct {
	scores map[string]*float64
	delay  func(doi string) time.Duration
}

func (s *stubEngagement) Resolve(ctx context.Context, doi string) types.EngagementMetadata {
	if s.delay != nil {
		select {
		case <-time.After(s.delay(doi)):
		case <-ctx.Done():
			return types.EngagementMetadata{}
		}
	}
	return types.EngagementMetadata{Score: s.scores[doi]}
}

// --- end-to-end scenarios ---

func TestAggregate_TwoDocuments(t *testing.T) {
	disc := &stubDiscovery{dois: []string{"10.1/a", "10.1/b"}}
	agg := &Aggregator{
		Discovery:  disc,
		Works:      &stubWorks{titles: map[string]string{"10.1/a": "Paper A", "10.1/b": "Paper B"}},
		Engagement: &stubEngagement{scores: map[string]*float64{"10.1/a": ptr(5.0)}},
	}

	res, err := agg.Run(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, orcid.ID("0000-0002-1825-0097"), res.ORCID)
	assert.NotEmpty(t, res.RequestID)

	assert.Equal(t, "10.1/a", res.Records[0].DOI)
	assert.Equal(t, "Paper A", *res.Records[0].Title)
	require.NotNil(t, res.Records[0].AltmetricScore)
	assert.Equal(t, 5.0, *res.Records[0].AltmetricScore)

	assert.Equal(t, "10.1/b", res.Records[1].DOI)
	assert.Equal(t, "Paper B", *res.Records[1].Title)
	assert.Nil(t, res.Records[1].AltmetricScore)

	assert.Equal(t, OutcomeFound, Classify(res, err))
}

func TestAggregate_EmptyDiscoveryIsNotAnError(t *testing.T) {
	works := &stubWorks{}
	agg := &Aggregator{Discovery: &stubDiscovery{dois: []string{}}, Works: works}

	res, err := agg.Run(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.NotNil(t, res.Records)
	assert.Equal(t, OutcomeEmpty, Classify(res, err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&works.calls))
}

func TestAggregate_DiscoveryTimeout(t *testing.T) {
	works := &stubWorks{}
	agg := &Aggregator{
		Discovery:        &stubDiscovery{block: true},
		Works:            works,
		DiscoveryTimeout: 20 * time.Millisecond,
	}

	res, err := agg.Run(context.Background(), "0000-0002-1825-0097")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDiscoveryFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, res.Records)
	assert.Equal(t, OutcomeFailed, Classify(res, err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&works.calls))
}

func TestAggregate_DiscoveryError(t *testing.T) {
	agg := &Aggregator{Discovery: &stubDiscovery{err: errors.New("ORCID API returned HTTP 500")}}

	res, err := agg.Run(context.Background(), "0000-0002-1825-0097")
	assert.ErrorIs(t, err, ErrDiscoveryFailed)
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Nil(t, res.Records)
	assert.Equal(t, OutcomeFailed, Classify(res, err))
}

func TestRun_InvalidInputSkipsDiscovery(t *testing.T) {
	disc := &stubDiscovery{dois: []string{"10.1/a"}}
	agg := &Aggregator{Discovery: disc}

	res, err := agg.Run(context.Background(), "12345")
	assert.ErrorIs(t, err, orcid.ErrInvalidFormat)
	assert.Equal(t, OutcomeInvalid, Classify(res, err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&disc.calls))
}

// --- ordering and degradation ---

func TestAggregate_PreservesDiscoveryOrderUnderReversedDelays(t *testing.T) {
	dois := []string{"10.1/0", "10.1/1", "10.1/2", "10.1/3", "10.1/4", "10.1/5"}
	titles := map[string]string{}
	rank := map[string]int{}
	for i, d := range dois {
		titles[d] = "title " + d
		rank[d] = i
	}
	// Earlier DOIs finish last.
	delay := func(doi string) time.Duration {
		return time.Duration(len(dois)-rank[doi]) * 10 * time.Millisecond
	}

	agg := &Aggregator{
		Discovery:  &stubDiscovery{dois: dois},
		Works:      &stubWorks{titles: titles, delay: delay},
		Engagement: &stubEngagement{delay: delay},
		Workers:    len(dois),
	}

	res, err := agg.Aggregate(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)
	require.Len(t, res.Records, len(dois))
	for i, rec := range res.Records {
		assert.Equal(t, dois[i], rec.DOI)
		assert.Equal(t, "title "+dois[i], *rec.Title)
	}
}

func TestAggregate_DuplicateDOIsKept(t *testing.T) {
	agg := &Aggregator{
		Discovery: &stubDiscovery{dois: []string{"10.1/a", "10.1/b", "10.1/a"}},
		Works:     &stubWorks{titles: map[string]string{"10.1/a": "A", "10.1/b": "B"}},
	}

	res, err := agg.Aggregate(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	assert.Equal(t, "10.1/a", res.Records[2].DOI)
	assert.Equal(t, "A", *res.Records[2].Title)
}

func TestAggregate_BothResolversFail(t *testing.T) {
	agg := &Aggregator{
		Discovery:  &stubDiscovery{dois: []string{"10.1/gone"}},
		Works:      &stubWorks{},
		Engagement: &stubEngagement{},
	}

	res, err := agg.Aggregate(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, types.PublicationRecord{DOI: "10.1/gone"}, res.Records[0])
}

func TestAggregate_NilResolversLeaveFieldsNil(t *testing.T) {
	agg := &Aggregator{Discovery: &stubDiscovery{dois: []string{"10.1/a"}}}

	res, err := agg.Aggregate(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)
	assert.Equal(t, types.PublicationCollection{{DOI: "10.1/a"}}, res.Records)
}

type concurrencyGauge struct {
	mu      sync.Mutex
	current int
	max     int
}

func (p *concurrencyGauge) Resolve(_ context.Context, _ string) types.WorkMetadata {
	p.mu.Lock()
	p.current++
	if p.current > p.max {
		p.max = p.current
	}
	p.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	p.mu.Lock()
	p.current--
	p.mu.Unlock()
	return types.WorkMetadata{}
}

func TestAggregate_RespectsWorkerLimit(t *testing.T) {
	dois := make([]string, 20)
	for i := range dois {
		dois[i] = "10.1/x"
	}
	gauge := &concurrencyGauge{}
	agg := &Aggregator{Discovery: &stubDiscovery{dois: dois}, Works: gauge, Workers: 3}

	res, err := agg.Aggregate(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)
	assert.Len(t, res.Records, 20)
	assert.LessOrEqual(t, gauge.max, 3)
	assert.GreaterOrEqual(t, gauge.max, 1)
}

func TestAggregate_CancelledRequestDeliversNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := func(string) time.Duration { return time.Second }
	agg := &Aggregator{
		Discovery: &stubDiscovery{dois: []string{"10.1/a", "10.1/b"}},
		Works:     &stubWorks{delay: slow},
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res, err := agg.Aggregate(ctx, "0000-0002-1825-0097")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.Records)
	assert.Equal(t, OutcomeAbandoned, Classify(res, err))
}

// --- compile ---

func TestCompile(t *testing.T) {
	work := types.WorkMetadata{
		Title:         ptr("Paper"),
		Authors:       ptr("Ada Lovelace"),
		AuthorNames:   []types.PersonName{{Given: "Ada", Family: "Lovelace"}},
		PublishedYear: ptr(2020),
		Journal:       ptr("J"),
		Publisher:     ptr("P"),
		Type:          ptr("journal-article"),
		Subjects:      []string{"Math"},
		Funders:       []string{"NSF"},
		CitationCount: ptr(3),
	}
	eng := types.EngagementMetadata{
		Score:        ptr(1.5),
		ReadersCount: ptr(10),
		ImageURL:     ptr("img"),
		DetailsURL:   ptr("url"),
	}

	got := Compile("10.1/a", work, eng)

	assert.Equal(t, "10.1/a", got.DOI)
	assert.Equal(t, work.Title, got.Title)
	assert.Equal(t, work.Authors, got.Authors)
	assert.Equal(t, work.AuthorNames, got.AuthorNames)
	assert.Equal(t, work.PublishedYear, got.PublishedYear)
	assert.Nil(t, got.CreatedYear)
	assert.Equal(t, work.Journal, got.Journal)
	assert.Equal(t, work.Subjects, got.Subjects)
	assert.Equal(t, work.Funders, got.Funders)
	assert.Equal(t, work.CitationCount, got.CitationCount)
	assert.Equal(t, eng.Score, got.AltmetricScore)
	assert.Equal(t, eng.ReadersCount, got.AltmetricReaders)
	assert.Equal(t, eng.ImageURL, got.AltmetricImage)
	assert.Equal(t, eng.DetailsURL, got.AltmetricURL)
}

func TestCompile_EmptyBags(t *testing.T) {
	got := Compile("10.1/a", types.WorkMetadata{}, types.EngagementMetadata{})
	assert.Equal(t, types.PublicationRecord{DOI: "10.1/a"}, got)
}

// --- classify ---

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		err  error
		want Outcome
	}{
		{"found", Result{Records: types.PublicationCollection{{DOI: "x"}}}, nil, OutcomeFound},
		{"empty", Result{Records: types.PublicationCollection{}}, nil, OutcomeEmpty},
		{"invalid", Result{}, orcid.ErrInvalidFormat, OutcomeInvalid},
		{"discovery failed", Result{}, ErrDiscoveryFailed, OutcomeFailed},
		{"superseded", Result{}, ErrSuperseded, OutcomeAbandoned},
		{"cancelled", Result{}, context.Canceled, OutcomeAbandoned},
		{"other", Result{}, errors.New("boom"), OutcomeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.res, tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.Message())
		})
	}
}

func TestAggregate_CancelledDuringDiscoveryIsAbandoned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	agg := &Aggregator{Discovery: &stubDiscovery{block: true}}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	res, err := agg.Run(ctx, "0000-0002-1825-0097")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrDiscoveryFailed)
	assert.Equal(t, OutcomeAbandoned, Classify(res, err))
}

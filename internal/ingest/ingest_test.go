package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/venue"
)

// fakeCatalog serves scripted pages and can fail partway through.
type fakeCatalog struct {
	v       domain.Venue
	pages   []venue.Page
	failAt  int // 1-based page index to fail on; 0 = never
	fetches int
}

func (f *fakeCatalog) Venue() domain.Venue { return f.v }

func (f *fakeCatalog) FetchMarkets(ctx context.Context, req venue.PageRequest) (venue.Page, error) {
	f.fetches++
	if f.failAt > 0 && f.fetches >= f.failAt {
		return venue.Page{}, assert.AnError
	}
	return f.pages[f.fetches-1], nil
}

type recordingMarkets struct {
	persistence.MarketRepository
	upserted []domain.Market
}

func (r *recordingMarkets) UpsertMarkets(ctx context.Context, markets []domain.Market) (int, error) {
	r.upserted = append(r.upserted, markets...)
	return len(markets), nil
}

type recordingRuns struct {
	persistence.IngestionRepository
	started  *persistence.IngestionRun
	finished *persistence.IngestionRun
}

func (r *recordingRuns) StartRun(ctx context.Context, run *persistence.IngestionRun) error {
	r.started = run
	return nil
}

func (r *recordingRuns) UpdateCursor(ctx context.Context, runID, cursor string, pages, markets int) error {
	return nil
}

func (r *recordingRuns) FinishRun(ctx context.Context, run *persistence.IngestionRun) error {
	r.finished = run
	return nil
}

func mkMarket(id, title string) domain.Market {
	close := time.Date(2026, 12, 31, 17, 0, 0, 0, time.UTC)
	return domain.Market{
		Venue:      domain.VenueKalshi,
		ExternalID: id,
		Title:      title,
		Status:     domain.StatusActive,
		CloseTime:  &close,
		Metadata:   map[string]string{"ticker": id},
	}
}

func TestIngesterRunPagesAndClassifies(t *testing.T) {
	cat := &fakeCatalog{v: domain.VenueKalshi, pages: []venue.Page{
		{Markets: []domain.Market{
			mkMarket("KXBTC-26DEC31-T100", "Will Bitcoin be above $100,000 on December 31, 2026?"),
		}, NextCursor: "p2"},
		{Markets: []domain.Market{
			mkMarket("KXFED-26MAR", "Will the Fed cut rates in March 2026?"),
		}},
	}}
	markets := &recordingMarkets{}
	runs := &recordingRuns{}
	in := New(markets, runs, 500)
	in.AddCatalog(cat, 200)

	run, err := in.Run(context.Background(), domain.VenueKalshi)
	require.NoError(t, err)

	assert.Equal(t, "ok", run.Status)
	assert.Equal(t, 2, run.Pages)
	assert.Equal(t, 2, run.Markets)
	require.NotNil(t, runs.finished)
	require.NotNil(t, run.FinishedAt)

	require.Len(t, markets.upserted, 2)
	btc := markets.upserted[0]
	require.NotNil(t, btc.DerivedTopic)
	assert.Equal(t, domain.TopicCryptoDaily, *btc.DerivedTopic)
	fed := markets.upserted[1]
	require.NotNil(t, fed.DerivedTopic)
	assert.Equal(t, domain.TopicRates, *fed.DerivedTopic)
}

func TestIngesterRunSkipsMalformedMarkets(t *testing.T) {
	cat := &fakeCatalog{v: domain.VenueKalshi, pages: []venue.Page{
		{Markets: []domain.Market{
			mkMarket("KXBTC-1", "Bitcoin above $100k?"),
			{Venue: domain.VenueKalshi, ExternalID: "", Title: "no external id"},
			{Venue: domain.VenueKalshi, ExternalID: "KXX-2", Title: ""},
		}},
	}}
	markets := &recordingMarkets{}
	runs := &recordingRuns{}
	in := New(markets, runs, 500)
	in.AddCatalog(cat, 200)

	run, err := in.Run(context.Background(), domain.VenueKalshi)
	require.NoError(t, err)

	assert.Equal(t, 1, run.Markets)
	assert.Equal(t, 2, run.ErrorCounts["parse_error"])
	require.Len(t, markets.upserted, 1)
}

func TestIngesterRunPartialOnMidPaginationFailure(t *testing.T) {
	cat := &fakeCatalog{
		v: domain.VenueKalshi,
		pages: []venue.Page{
			{Markets: []domain.Market{mkMarket("KXBTC-1", "Bitcoin above $100k?")}, NextCursor: "p2"},
			{Markets: []domain.Market{mkMarket("KXBTC-2", "Bitcoin above $110k?")}},
		},
		failAt: 2,
	}
	markets := &recordingMarkets{}
	runs := &recordingRuns{}
	in := New(markets, runs, 500)
	in.AddCatalog(cat, 200)

	run, err := in.Run(context.Background(), domain.VenueKalshi)
	// partial keeps what was already written and is not a hard failure
	require.NoError(t, err)
	assert.Equal(t, "partial", run.Status)
	assert.Equal(t, 1, run.Markets)
	assert.NotEmpty(t, run.LastError)
	require.Len(t, markets.upserted, 1)
}

func TestIngesterRunFailsOnFirstPage(t *testing.T) {
	cat := &fakeCatalog{v: domain.VenueKalshi, pages: []venue.Page{{}}, failAt: 1}
	in := New(&recordingMarkets{}, &recordingRuns{}, 500)
	in.AddCatalog(cat, 200)

	run, err := in.Run(context.Background(), domain.VenueKalshi)
	require.Error(t, err)
	assert.Equal(t, "failed", run.Status)
	assert.Zero(t, run.Markets)
}

func TestIngesterRunUnknownVenue(t *testing.T) {
	in := New(&recordingMarkets{}, &recordingRuns{}, 500)
	_, err := in.Run(context.Background(), domain.VenuePolymarket)
	assert.Error(t, err)
}

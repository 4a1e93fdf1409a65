package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/config"
	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/pipeline"
)

// mockMarkets serves canned rows per venue.
type mockMarkets struct {
	persistence.MarketRepository
	byVenue map[domain.Venue][]domain.Market
	err     error
}

func (m *mockMarkets) ListEligibleMarkets(ctx context.Context, q persistence.MarketQuery) ([]domain.Market, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byVenue[q.Venue], nil
}

// mockLinks records every upsert.
type mockLinks struct {
	persistence.MarketLinkRepository
	upserts []persistence.LinkUpsert
	fail    int // fail the first N calls
	calls   int
}

func (m *mockLinks) UpsertLinks(ctx context.Context, links []persistence.LinkUpsert) (int, error) {
	m.calls++
	if m.calls <= m.fail {
		return 0, assert.AnError
	}
	m.upserts = append(m.upserts, links...)
	return len(links), nil
}

func closeAt(t time.Time) *time.Time { return &t }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Match.Workers = 2
	return cfg
}

func btcMarkets() map[domain.Venue][]domain.Market {
	dec := time.Date(2026, 12, 31, 17, 0, 0, 0, time.UTC)
	return map[domain.Venue][]domain.Market{
		domain.VenueKalshi: {
			{ID: 1, Venue: domain.VenueKalshi, ExternalID: "KXBTC-26DEC31-T100", Title: "Will Bitcoin be above $100,000 on December 31, 2026?", CloseTime: closeAt(dec), Status: domain.StatusActive},
		},
		domain.VenuePolymarket: {
			{ID: 2, Venue: domain.VenuePolymarket, ExternalID: "0xabc", Title: "Bitcoin above $100k on Dec 31, 2026?", CloseTime: closeAt(dec), Status: domain.StatusActive},
		},
	}
}

func TestEngineRunConfirmsExactPair(t *testing.T) {
	pipeline.RegisterAll()
	markets := &mockMarkets{byVenue: btcMarkets()}
	links := &mockLinks{}
	eng := New(markets, links, testConfig())

	summary, err := eng.Run(context.Background(), RunOptions{
		LeftVenue:  domain.VenueKalshi,
		RightVenue: domain.VenuePolymarket,
		Topic:      domain.TopicCryptoDaily,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.LeftMarkets)
	assert.Equal(t, 1, summary.RightMarkets)
	assert.Equal(t, 1, summary.LinksWritten)
	assert.Equal(t, 1, summary.AutoConfirmed)

	require.Len(t, links.upserts, 1)
	up := links.upserts[0]
	assert.Equal(t, domain.LinkConfirmed, up.Status)
	assert.Equal(t, int64(1), up.LeftMarketID)
	assert.Equal(t, int64(2), up.RightMarketID)
	assert.Contains(t, up.Reason, "auto_confirm=CRYPTO_EXACT_FIELDS")
	assert.Contains(t, up.AlgoVersion, "crypto_daily@")
}

func TestEngineRunRejectsConflictingPair(t *testing.T) {
	pipeline.RegisterAll()
	dec := time.Date(2026, 12, 31, 17, 0, 0, 0, time.UTC)
	markets := &mockMarkets{byVenue: map[domain.Venue][]domain.Market{
		domain.VenueKalshi: {
			{ID: 1, Venue: domain.VenueKalshi, Title: "Will Bitcoin be above $100,000 on December 31, 2026?", CloseTime: closeAt(dec)},
		},
		domain.VenuePolymarket: {
			{ID: 2, Venue: domain.VenuePolymarket, Title: "Will Bitcoin be below $100,000 on December 31, 2026?", CloseTime: closeAt(dec)},
		},
	}}
	links := &mockLinks{}
	eng := New(markets, links, testConfig())

	summary, err := eng.Run(context.Background(), RunOptions{
		LeftVenue:  domain.VenueKalshi,
		RightVenue: domain.VenuePolymarket,
		Topic:      domain.TopicCryptoDaily,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.AutoRejected)
	require.Len(t, links.upserts, 1)
	assert.Equal(t, domain.LinkRejected, links.upserts[0].Status)
	assert.Contains(t, links.upserts[0].Reason, "auto_reject=CONFLICTING_COMPARATOR")
}

func TestEngineRunUnsupportedTopic(t *testing.T) {
	pipeline.RegisterAll()
	eng := New(&mockMarkets{}, &mockLinks{}, testConfig())

	_, err := eng.Run(context.Background(), RunOptions{
		LeftVenue:  domain.VenueKalshi,
		RightVenue: domain.VenuePolymarket,
		Topic:      domain.TopicUnknown,
	})
	assert.ErrorIs(t, err, ErrUnsupportedTopic)
}

func TestEngineRunEmptySide(t *testing.T) {
	pipeline.RegisterAll()
	byVenue := btcMarkets()
	delete(byVenue, domain.VenuePolymarket)
	links := &mockLinks{}
	eng := New(&mockMarkets{byVenue: byVenue}, links, testConfig())

	summary, err := eng.Run(context.Background(), RunOptions{
		LeftVenue:  domain.VenueKalshi,
		RightVenue: domain.VenuePolymarket,
		Topic:      domain.TopicCryptoDaily,
	})
	require.NoError(t, err)
	assert.Zero(t, summary.LinksWritten)
	assert.Empty(t, links.upserts)
}

func TestEngineRunVenueFetchFailureIsWarning(t *testing.T) {
	pipeline.RegisterAll()
	links := &mockLinks{}
	eng := New(&mockMarkets{err: assert.AnError}, links, testConfig())

	summary, err := eng.Run(context.Background(), RunOptions{
		LeftVenue:  domain.VenueKalshi,
		RightVenue: domain.VenuePolymarket,
		Topic:      domain.TopicCryptoDaily,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, summary.Warnings)
	assert.Empty(t, links.upserts)
}

func TestEngineRunSameVenueRefused(t *testing.T) {
	eng := New(&mockMarkets{}, &mockLinks{}, testConfig())
	_, err := eng.Run(context.Background(), RunOptions{
		LeftVenue:  domain.VenueKalshi,
		RightVenue: domain.VenueKalshi,
		Topic:      domain.TopicCryptoDaily,
	})
	assert.Error(t, err)
}

func TestEngineRunIsIdempotent(t *testing.T) {
	pipeline.RegisterAll()
	markets := &mockMarkets{byVenue: btcMarkets()}
	links := &mockLinks{}
	eng := New(markets, links, testConfig())

	opts := RunOptions{LeftVenue: domain.VenueKalshi, RightVenue: domain.VenuePolymarket, Topic: domain.TopicCryptoDaily}
	first, err := eng.Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := eng.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.LinksWritten, second.LinksWritten)
	require.Len(t, links.upserts, 2)
	assert.Equal(t, links.upserts[0].LeftMarketID, links.upserts[1].LeftMarketID)
	assert.Equal(t, links.upserts[0].Status, links.upserts[1].Status)
	assert.Equal(t, links.upserts[0].Score, links.upserts[1].Score)
}

func TestEngineRunAllSkipsUnknown(t *testing.T) {
	pipeline.RegisterAll()
	eng := New(&mockMarkets{byVenue: map[domain.Venue][]domain.Market{}}, &mockLinks{}, testConfig())

	summaries, err := eng.RunAll(context.Background(), domain.VenueKalshi, domain.VenuePolymarket)
	require.NoError(t, err)
	assert.Len(t, summaries, len(domain.MatchableTopics()))
}

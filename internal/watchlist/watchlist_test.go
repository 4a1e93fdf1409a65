package watchlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/config"
	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
)

type stubLinks struct {
	persistence.MarketLinkRepository
	byStatus map[domain.LinkStatus][]domain.MarketLink
}

func (s *stubLinks) ListSuggestions(ctx context.Context, q persistence.LinkQuery) ([]domain.MarketLink, error) {
	return s.byStatus[q.Status], nil
}

type stubWatchlist struct {
	persistence.WatchlistRepository
	upserted []domain.WatchlistItem
	pruned   int
}

func (s *stubWatchlist) UpsertMany(ctx context.Context, items []domain.WatchlistItem) (int, error) {
	s.upserted = items
	return len(items), nil
}

func (s *stubWatchlist) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return s.pruned, nil
}

func link(id, leftID, rightID int64, topic domain.Topic, status domain.LinkStatus, score float64) domain.MarketLink {
	return domain.MarketLink{
		ID:            id,
		LeftMarketID:  leftID,
		RightMarketID: rightID,
		LeftVenue:     domain.VenueKalshi,
		RightVenue:    domain.VenuePolymarket,
		Topic:         topic,
		Score:         score,
		Status:        status,
	}
}

func itemFor(items []domain.WatchlistItem, venue domain.Venue, marketID int64) *domain.WatchlistItem {
	for i := range items {
		if items[i].Venue == venue && items[i].MarketID == marketID {
			return &items[i]
		}
	}
	return nil
}

func TestSyncPriorities(t *testing.T) {
	links := &stubLinks{byStatus: map[domain.LinkStatus][]domain.MarketLink{
		domain.LinkConfirmed: {
			link(1, 10, 20, domain.TopicCryptoDaily, domain.LinkConfirmed, 0.95),
		},
		domain.LinkSuggested: {
			// above the crypto safe floor of 0.88
			link(2, 11, 21, domain.TopicCryptoDaily, domain.LinkSuggested, 0.90),
			// below the floor, still a top suggestion
			link(3, 12, 22, domain.TopicCryptoDaily, domain.LinkSuggested, 0.70),
		},
	}}
	repo := &stubWatchlist{}
	s := NewSyncer(links, repo, nil, config.Default())

	res, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Confirmed)
	assert.Equal(t, 1, res.Safe)
	assert.Equal(t, 2, res.Top)
	assert.Equal(t, 6, res.Items)
	assert.Equal(t, 3, res.PerVenue[domain.VenueKalshi])
	assert.Equal(t, 3, res.PerVenue[domain.VenuePolymarket])

	confirmed := itemFor(repo.upserted, domain.VenueKalshi, 10)
	require.NotNil(t, confirmed)
	assert.Equal(t, domain.PriorityConfirmed, confirmed.Priority)

	safe := itemFor(repo.upserted, domain.VenueKalshi, 11)
	require.NotNil(t, safe)
	assert.Equal(t, domain.PriorityCandidateSafe, safe.Priority)

	top := itemFor(repo.upserted, domain.VenuePolymarket, 22)
	require.NotNil(t, top)
	assert.Equal(t, domain.PriorityTopSuggested, top.Priority)
}

func TestSyncKeepsHigherPriorityForSharedMarket(t *testing.T) {
	// Market 10 appears in a confirmed link and a high-scoring suggestion;
	// the confirmed priority must win.
	links := &stubLinks{byStatus: map[domain.LinkStatus][]domain.MarketLink{
		domain.LinkConfirmed: {
			link(1, 10, 20, domain.TopicCryptoDaily, domain.LinkConfirmed, 0.89),
		},
		domain.LinkSuggested: {
			link(2, 10, 21, domain.TopicCryptoDaily, domain.LinkSuggested, 0.99),
		},
	}}
	repo := &stubWatchlist{}
	s := NewSyncer(links, repo, nil, config.Default())

	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	it := itemFor(repo.upserted, domain.VenueKalshi, 10)
	require.NotNil(t, it)
	assert.Equal(t, domain.PriorityConfirmed, it.Priority)
	assert.Equal(t, 0.89, it.Score)
}

func TestSyncDefaultSafeFloor(t *testing.T) {
	// Rates has no configured safe floor; 0.85 applies.
	links := &stubLinks{byStatus: map[domain.LinkStatus][]domain.MarketLink{
		domain.LinkSuggested: {
			link(1, 10, 20, domain.TopicRates, domain.LinkSuggested, 0.86),
			link(2, 11, 21, domain.TopicRates, domain.LinkSuggested, 0.84),
		},
	}}
	repo := &stubWatchlist{}
	s := NewSyncer(links, repo, nil, config.Default())

	res, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Safe)

	above := itemFor(repo.upserted, domain.VenueKalshi, 10)
	require.NotNil(t, above)
	assert.Equal(t, domain.PriorityCandidateSafe, above.Priority)

	below := itemFor(repo.upserted, domain.VenueKalshi, 11)
	require.NotNil(t, below)
	assert.Equal(t, domain.PriorityTopSuggested, below.Priority)
}

func TestApplyCaps(t *testing.T) {
	items := []domain.WatchlistItem{
		{Venue: domain.VenueKalshi, MarketID: 1, Priority: 50, Score: 0.60},
		{Venue: domain.VenueKalshi, MarketID: 2, Priority: 100, Score: 0.95},
		{Venue: domain.VenueKalshi, MarketID: 3, Priority: 80, Score: 0.90},
		{Venue: domain.VenuePolymarket, MarketID: 4, Priority: 50, Score: 0.70},
	}

	t.Run("per venue cap keeps highest priority", func(t *testing.T) {
		out := applyCaps(items, 2, 10)
		require.Len(t, out, 3)
		got := map[int64]bool{}
		for _, it := range out {
			got[it.MarketID] = true
		}
		assert.True(t, got[2])
		assert.True(t, got[3])
		assert.True(t, got[4])
		assert.False(t, got[1])
	})

	t.Run("total cap", func(t *testing.T) {
		out := applyCaps(items, 10, 2)
		require.Len(t, out, 2)
		assert.Equal(t, int64(2), out[0].MarketID)
		assert.Equal(t, int64(3), out[1].MarketID)
	})
}

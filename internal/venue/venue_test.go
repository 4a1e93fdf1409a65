package venue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/errkind"
)

func TestNormalizeKalshi(t *testing.T) {
	km := kalshiMarket{
		Ticker:       "KXBTC-26DEC31-T100",
		EventTicker:  "KXBTC-26DEC31",
		SeriesTicker: "KXBTC",
		Title:        "Will Bitcoin be above $100,000",
		Subtitle:     "on December 31, 2026?",
		Category:     "Crypto",
		Status:       "open",
		CloseTime:    "2026-12-31T17:00:00Z",
	}

	m := normalizeKalshi(km)
	assert.Equal(t, domain.VenueKalshi, m.Venue)
	assert.Equal(t, "KXBTC-26DEC31-T100", m.ExternalID)
	assert.Equal(t, "Will Bitcoin be above $100,000 on December 31, 2026?", m.Title)
	assert.Equal(t, domain.StatusActive, m.Status)
	assert.Equal(t, "KXBTC", m.Metadata["series_ticker"])
	require.NotNil(t, m.Category)
	assert.Equal(t, "Crypto", *m.Category)
	require.NotNil(t, m.CloseTime)
	assert.Equal(t, time.Date(2026, 12, 31, 17, 0, 0, 0, time.UTC), *m.CloseTime)
	require.Len(t, m.Outcomes, 2)
	assert.Equal(t, domain.SideYes, m.Outcomes[0].Side)
}

func TestNormalizeKalshiFallbacks(t *testing.T) {
	t.Run("expected expiration backfills close time", func(t *testing.T) {
		m := normalizeKalshi(kalshiMarket{
			Ticker:             "KXFED-26MAR",
			Title:              "Fed decision",
			Status:             "closed",
			ExpectedExpiration: "2026-03-18T19:00:00Z",
		})
		assert.Equal(t, domain.StatusClosed, m.Status)
		require.NotNil(t, m.CloseTime)
		assert.Equal(t, 2026, m.CloseTime.Year())
	})

	t.Run("mutually exclusive flag rides metadata", func(t *testing.T) {
		m := normalizeKalshi(kalshiMarket{Ticker: "KXMV-1", Title: "x", MutuallyExclusive: true})
		assert.Equal(t, "true", m.Metadata["mutually_exclusive"])
	})

	t.Run("bad close time leaves nil", func(t *testing.T) {
		m := normalizeKalshi(kalshiMarket{Ticker: "T", Title: "x", CloseTime: "not-a-time"})
		assert.Nil(t, m.CloseTime)
	})
}

func TestKalshiStatus(t *testing.T) {
	assert.Equal(t, domain.StatusActive, kalshiStatus("open"))
	assert.Equal(t, domain.StatusActive, kalshiStatus("Active"))
	assert.Equal(t, domain.StatusClosed, kalshiStatus("closed"))
	assert.Equal(t, domain.StatusResolved, kalshiStatus("settled"))
	assert.Equal(t, domain.StatusArchived, kalshiStatus("something_else"))
}

func TestNormalizeGamma(t *testing.T) {
	gm := gammaMarket{
		ID:          "501234",
		Question:    "Bitcoin above $100k on Dec 31, 2026?",
		Slug:        "bitcoin-above-100k-dec-31-2026",
		Category:    "Crypto",
		Active:      true,
		EndDate:     "2026-12-31T17:00:00Z",
		Outcomes:    `["Yes","No"]`,
		ConditionID: "0xabc",
	}
	gm.RawTags = []struct {
		Label string `json:"label"`
	}{{Label: "Crypto"}, {Label: "Bitcoin"}}

	m := normalizeGamma(gm)
	assert.Equal(t, domain.VenuePolymarket, m.Venue)
	assert.Equal(t, "501234", m.ExternalID)
	assert.Equal(t, domain.StatusActive, m.Status)
	assert.Equal(t, []string{"Crypto", "Bitcoin"}, m.Tags)
	assert.Equal(t, "0xabc", m.Metadata["condition_id"])
	require.NotNil(t, m.CloseTime)
	require.Len(t, m.Outcomes, 2)
	assert.Equal(t, domain.SideYes, m.Outcomes[0].Side)
	assert.Equal(t, domain.SideNo, m.Outcomes[1].Side)
}

func TestGammaStatusPrecedence(t *testing.T) {
	// archived beats closed beats active
	assert.Equal(t, domain.StatusArchived, gammaStatus(gammaMarket{Archived: true, Closed: true, Active: true}))
	assert.Equal(t, domain.StatusClosed, gammaStatus(gammaMarket{Closed: true, Active: true}))
	assert.Equal(t, domain.StatusActive, gammaStatus(gammaMarket{Active: true}))
	assert.Equal(t, domain.StatusClosed, gammaStatus(gammaMarket{}))
}

func TestKalshiClientPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/markets", r.URL.Path)
		resp := kalshiMarketsResponse{Cursor: ""}
		if r.URL.Query().Get("cursor") == "" {
			resp.Cursor = "next-page"
			resp.Markets = []kalshiMarket{{Ticker: "A", Title: "first", Status: "open"}}
		} else {
			resp.Markets = []kalshiMarket{{Ticker: "B", Title: "second", Status: "open"}}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewKalshiClient(srv.URL, 100, 100, 5*time.Second, 1)

	var got []domain.Market
	err := FetchAll(context.Background(), c, 200, func(p Page) error {
		got = append(got, p.Markets...)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ExternalID)
	assert.Equal(t, "B", got[1].ExternalID)
}

func TestPolymarketClientOffsetCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		w.Header().Set("Content-Type", "application/json")
		if offset == "0" {
			// a full page signals more data behind it
			json.NewEncoder(w).Encode([]gammaMarket{
				{ID: "1", Question: "q1", Active: true, Outcomes: `["Yes","No"]`},
				{ID: "2", Question: "q2", Active: true, Outcomes: `["Yes","No"]`},
			})
			return
		}
		json.NewEncoder(w).Encode([]gammaMarket{
			{ID: "3", Question: "q3", Active: true, Outcomes: `["Yes","No"]`},
		})
	}))
	defer srv.Close()

	c := NewPolymarketClient(srv.URL, 100, 100, 5*time.Second, 1)

	first, err := c.FetchMarkets(context.Background(), PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "2", first.NextCursor)

	second, err := c.FetchMarkets(context.Background(), PageRequest{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	assert.Empty(t, second.NextCursor)
	require.Len(t, second.Markets, 1)
	assert.Equal(t, "3", second.Markets[0].ExternalID)
}

func TestTransportDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewKalshiClient(srv.URL, 100, 100, 5*time.Second, 3)
	_, err := c.FetchMarkets(context.Background(), PageRequest{Limit: 10})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestTransportRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(kalshiMarketsResponse{
			Markets: []kalshiMarket{{Ticker: "A", Title: "ok", Status: "open"}},
		})
	}))
	defer srv.Close()

	c := NewKalshiClient(srv.URL, 100, 100, 5*time.Second, 2)
	page, err := c.FetchMarkets(context.Background(), PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, page.Markets, 1)
}

func TestBackoff(t *testing.T) {
	t.Run("retry-after wins on 429", func(t *testing.T) {
		d := backoff(1, &errkind.StatusError{Status: 429, RetryAfter: "3"})
		assert.Equal(t, 3*time.Second, d)
	})

	t.Run("exponential with jitter otherwise", func(t *testing.T) {
		d := backoff(2, &errkind.StatusError{Status: 500})
		assert.GreaterOrEqual(t, d, 1*time.Second)
		assert.Less(t, d, 2*time.Second)
	})
}

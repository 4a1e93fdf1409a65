package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pmxlab/crosslink/internal/domain"
)

func strp(s string) *string { return &s }

func TestClassifyTickerPrefix(t *testing.T) {
	c := New()
	tests := []struct {
		name   string
		ticker string
		want   domain.Topic
	}{
		{"btc daily", "KXBTC-26DEC31", domain.TopicCryptoDaily},
		{"btc intraday beats daily on longer prefix", "KXBTCD-26MAR15H14", domain.TopicCryptoIntraday},
		{"eth intraday", "KXETHD-26MAR15", domain.TopicCryptoIntraday},
		{"cpi", "KXCPI-26MAR", domain.TopicMacro},
		{"fed", "KXFEDDECISION-26MAR", domain.TopicRates},
		{"mve sports", "KXMVCHAMP-26", domain.TopicSports},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &domain.Market{
				Venue:      domain.VenueKalshi,
				ExternalID: tt.ticker,
				Title:      "irrelevant",
				Metadata:   map[string]string{"series_ticker": tt.ticker},
			}
			got := c.Classify(m)
			assert.Equal(t, tt.want, got.Topic)
			assert.Equal(t, SourceTicker, got.Source)
			assert.Equal(t, 0.95, got.Confidence)
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c := New()

	t.Run("ticker beats category", func(t *testing.T) {
		m := &domain.Market{
			Venue:      domain.VenueKalshi,
			ExternalID: "KXBTC-X",
			Category:   strp("Economics"),
			Title:      "Bitcoin above 100k",
		}
		got := c.Classify(m)
		assert.Equal(t, domain.TopicCryptoDaily, got.Topic)
		assert.Equal(t, SourceTicker, got.Source)
	})

	t.Run("category beats tags", func(t *testing.T) {
		m := &domain.Market{
			Venue:    domain.VenuePolymarket,
			Category: strp("Politics"),
			Tags:     []string{"bitcoin"},
			Title:    "something",
		}
		got := c.Classify(m)
		assert.Equal(t, domain.TopicElections, got.Topic)
		assert.Equal(t, SourceCategory, got.Source)
	})

	t.Run("tags beat title", func(t *testing.T) {
		m := &domain.Market{
			Venue: domain.VenuePolymarket,
			Tags:  []string{"Fed Rates"},
			Title: "Will Bitcoin hit 100k?",
		}
		got := c.Classify(m)
		assert.Equal(t, domain.TopicRates, got.Topic)
		assert.Equal(t, SourceTags, got.Source)
	})

	t.Run("polymarket ignores ticker rules", func(t *testing.T) {
		m := &domain.Market{
			Venue:      domain.VenuePolymarket,
			ExternalID: "KXBTC-LOOKALIKE",
			Title:      "Who will win the Oscars?",
		}
		got := c.Classify(m)
		assert.Equal(t, domain.TopicEntertainment, got.Topic)
		assert.Equal(t, SourceTitle, got.Source)
	})
}

func TestClassifyTitleRules(t *testing.T) {
	c := New()
	tests := []struct {
		title string
		want  domain.Topic
	}{
		{"Will Bitcoin close above $100,000?", domain.TopicCryptoDaily},
		{"Bitcoin up or down this hour?", domain.TopicCryptoIntraday},
		{"Will the Fed cut rates by 25 bps?", domain.TopicRates},
		{"CPI above 3.2% in March?", domain.TopicMacro},
		{"Who wins the presidential election?", domain.TopicElections},
		{"WTI crude above $85 per barrel?", domain.TopicCommodities},
		{"NBA Finals winner 2026", domain.TopicSports},
		{"S&P above 6000 at year end?", domain.TopicFinance},
		{"Will there be a ceasefire by June?", domain.TopicGeopolitics},
		{"Box office opening weekend over $100m?", domain.TopicEntertainment},
		{"Hurricane landfall in Florida this season?", domain.TopicClimate},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := c.Classify(&domain.Market{Venue: domain.VenuePolymarket, Title: tt.title})
			assert.Equal(t, tt.want, got.Topic)
			assert.Equal(t, SourceTitle, got.Source)
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	c := New()
	got := c.Classify(&domain.Market{Venue: domain.VenuePolymarket, Title: "Something nobody can place"})
	assert.Equal(t, domain.TopicUnknown, got.Topic)
	assert.Equal(t, SourceFallback, got.Source)
	assert.Zero(t, got.Confidence)
}

package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/signals"
)

func ratesMarket(id int64, venue domain.Venue, title string, close time.Time) MarketWithSignals {
	return MarketWithSignals{
		Market:  domain.Market{ID: id, Venue: venue, Title: title, CloseTime: &close},
		Signals: signals.ExtractRates(title, &close),
	}
}

func TestRatesPipelineSameMeetingSameMove(t *testing.T) {
	p := NewRatesPipeline()
	close := time.Date(2026, 3, 18, 19, 0, 0, 0, time.UTC)

	left := ratesMarket(1, domain.VenueKalshi, "Will the Fed cut rates by 25 bps at the March 2026 meeting?", close)
	right := ratesMarket(2, domain.VenuePolymarket, "Fed to lower rates by 0.25% in March 2026", close)

	gate := p.CheckHardGates(left, right)
	require.True(t, gate.Passed, gate.FailReason)

	score := p.Score(left, right)
	require.NotNil(t, score)
	assert.GreaterOrEqual(t, score.Score, 0.88)
	assert.Equal(t, TierStrong, score.Tier)

	conf := p.ShouldAutoConfirm(left, right, score)
	assert.True(t, conf.ShouldConfirm)
	assert.Equal(t, "RATES_SAME_MEETING_SAME_MOVE", conf.Rule)
}

func TestRatesPipelineGates(t *testing.T) {
	p := NewRatesPipeline()
	close := time.Date(2026, 3, 18, 19, 0, 0, 0, time.UTC)

	t.Run("bank mismatch", func(t *testing.T) {
		left := ratesMarket(1, domain.VenueKalshi, "Fed cuts rates in March 2026", close)
		right := ratesMarket(2, domain.VenuePolymarket, "ECB cuts rates in March 2026", close)
		gate := p.CheckHardGates(left, right)
		assert.Equal(t, "bank_mismatch", gate.FailReason)
	})

	t.Run("cut versus hike", func(t *testing.T) {
		left := ratesMarket(1, domain.VenueKalshi, "Fed cuts rates in March 2026", close)
		right := ratesMarket(2, domain.VenuePolymarket, "Fed hikes rates in March 2026", close)
		gate := p.CheckHardGates(left, right)
		assert.Equal(t, "action_conflict", gate.FailReason)
	})
}

func TestRatesPipelineBpsMismatch(t *testing.T) {
	p := NewRatesPipeline()
	close := time.Date(2026, 3, 18, 19, 0, 0, 0, time.UTC)

	left := ratesMarket(1, domain.VenueKalshi, "Fed cuts rates by 25 bps in March 2026", close)
	right := ratesMarket(2, domain.VenuePolymarket, "Fed cuts rates by 50 bps in March 2026", close)

	score := p.Score(left, right)
	require.NotNil(t, score)

	rej := p.ShouldAutoReject(left, right, score)
	assert.True(t, rej.ShouldReject)
	assert.Equal(t, "BPS_MISMATCH", rej.Rule)

	conf := p.ShouldAutoConfirm(left, right, score)
	assert.False(t, conf.ShouldConfirm)
}

func TestRatesBlockingFallsBackToBank(t *testing.T) {
	p := NewRatesPipeline()
	mar := time.Date(2026, 3, 18, 19, 0, 0, 0, time.UTC)
	apr := time.Date(2026, 4, 29, 19, 0, 0, 0, time.UTC)

	left := ratesMarket(1, domain.VenueKalshi, "Fed cuts rates in March 2026", mar)
	right := ratesMarket(2, domain.VenuePolymarket, "Fed cuts rates in April 2026", apr)

	index := p.BuildIndex([]MarketWithSignals{right})
	cands := p.FindCandidates(left, index)
	require.Len(t, cands, 1)
	assert.Equal(t, int64(2), cands[0].Market.ID)
}

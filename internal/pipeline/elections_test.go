package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/signals"
)

func electionsMarket(id int64, venue domain.Venue, title string, close time.Time) MarketWithSignals {
	return MarketWithSignals{
		Market:  domain.Market{ID: id, Venue: venue, Title: title, CloseTime: &close},
		Signals: signals.ExtractElections(title, &close),
	}
}

func TestElectionsPipelineWinnerPair(t *testing.T) {
	p := NewElectionsPipeline()
	close := time.Date(2028, 11, 7, 23, 0, 0, 0, time.UTC)

	left := electionsMarket(1, domain.VenueKalshi, "Will Gavin Newsom win the 2028 presidential election?", close)
	right := electionsMarket(2, domain.VenuePolymarket, "Gavin Newsom wins the 2028 presidential election?", close)

	gate := p.CheckHardGates(left, right)
	require.True(t, gate.Passed, gate.FailReason)

	score := p.Score(left, right)
	require.NotNil(t, score)
	assert.Equal(t, TierStrong, score.Tier)

	// elections never auto-confirm, no matter how strong the pair looks
	conf := p.ShouldAutoConfirm(left, right, score)
	assert.False(t, conf.ShouldConfirm)
	assert.False(t, p.SupportsAutoConfirm())

	rej := p.ShouldAutoReject(left, right, score)
	assert.False(t, rej.ShouldReject)
}

func TestElectionsPipelineNoCandidateOverlap(t *testing.T) {
	p := NewElectionsPipeline()
	close := time.Date(2028, 11, 7, 23, 0, 0, 0, time.UTC)

	left := electionsMarket(1, domain.VenueKalshi, "Will Gavin Newsom win the 2028 presidential election?", close)
	right := electionsMarket(2, domain.VenuePolymarket, "Will Donald Trump win the 2028 presidential election?", close)

	gate := p.CheckHardGates(left, right)
	require.True(t, gate.Passed, gate.FailReason)

	score := p.Score(left, right)
	require.NotNil(t, score)

	rej := p.ShouldAutoReject(left, right, score)
	assert.True(t, rej.ShouldReject)
	assert.Equal(t, "NO_CANDIDATE_OVERLAP", rej.Rule)
}

func TestElectionsPipelineGates(t *testing.T) {
	p := NewElectionsPipeline()
	close := time.Date(2026, 11, 3, 23, 0, 0, 0, time.UTC)

	t.Run("year mismatch", func(t *testing.T) {
		left := electionsMarket(1, domain.VenueKalshi, "Will Gavin Newsom win the 2028 presidential election?", close)
		right := electionsMarket(2, domain.VenuePolymarket, "Will Gavin Newsom win the 2032 presidential election?", close)
		gate := p.CheckHardGates(left, right)
		assert.Equal(t, "year_mismatch", gate.FailReason)
	})

	t.Run("intent mismatch", func(t *testing.T) {
		left := electionsMarket(1, domain.VenueKalshi, "Will Donald Trump win the 2028 presidential election?", close)
		right := electionsMarket(2, domain.VenuePolymarket, "Will Donald Trump win the 2028 election by 5 points?", close)
		gate := p.CheckHardGates(left, right)
		assert.Equal(t, "intent_mismatch", gate.FailReason)
	})

	t.Run("state mismatch", func(t *testing.T) {
		left := electionsMarket(1, domain.VenueKalshi, "Will Democrats win the Pennsylvania Senate race in 2026?", close)
		right := electionsMarket(2, domain.VenuePolymarket, "Will Democrats win the Michigan Senate race in 2026?", close)
		gate := p.CheckHardGates(left, right)
		assert.Equal(t, "state_mismatch", gate.FailReason)
	})
}

func TestElectionsBlockingByCandidate(t *testing.T) {
	p := NewElectionsPipeline()
	close := time.Date(2028, 11, 7, 23, 0, 0, 0, time.UTC)

	// Neither title names a country, so the strict key is empty; the
	// candidate key still pairs them.
	left := electionsMarket(1, domain.VenueKalshi, "Will Gavin Newsom win the 2028 presidential election?", close)
	right := electionsMarket(2, domain.VenuePolymarket, "Gavin Newsom elected president in 2028?", close)

	index := p.BuildIndex([]MarketWithSignals{right})
	cands := p.FindCandidates(left, index)
	require.Len(t, cands, 1)
	assert.Equal(t, int64(2), cands[0].Market.ID)
}

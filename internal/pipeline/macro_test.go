package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/signals"
)

func macroMarket(id int64, venue domain.Venue, title string, close time.Time) MarketWithSignals {
	return MarketWithSignals{
		Market:  domain.Market{ID: id, Venue: venue, Title: title, CloseTime: &close},
		Signals: signals.ExtractMacro(title, &close),
	}
}

func TestMacroPipelineExactPeriod(t *testing.T) {
	p := NewMacroPipeline()
	close := time.Date(2026, 4, 10, 12, 30, 0, 0, time.UTC)

	left := macroMarket(1, domain.VenueKalshi, "Will US CPI come in above 3.2% for March 2026?", close)
	right := macroMarket(2, domain.VenuePolymarket, "US CPI above 3.2% in March 2026?", close)

	gate := p.CheckHardGates(left, right)
	require.True(t, gate.Passed, gate.FailReason)

	score := p.Score(left, right)
	require.NotNil(t, score)
	assert.GreaterOrEqual(t, score.Score, 0.88)
	assert.Equal(t, TierStrong, score.Tier)

	conf := p.ShouldAutoConfirm(left, right, score)
	assert.True(t, conf.ShouldConfirm)
	assert.Equal(t, "MACRO_EXACT_PERIOD", conf.Rule)
}

func TestMacroPipelineGates(t *testing.T) {
	p := NewMacroPipeline()
	close := time.Date(2026, 4, 10, 12, 30, 0, 0, time.UTC)

	t.Run("indicator mismatch", func(t *testing.T) {
		left := macroMarket(1, domain.VenueKalshi, "US CPI above 3% in March 2026", close)
		right := macroMarket(2, domain.VenuePolymarket, "US GDP above 3% in March 2026", close)
		gate := p.CheckHardGates(left, right)
		assert.Equal(t, "entity_mismatch", gate.FailReason)
	})

	t.Run("different years are incompatible", func(t *testing.T) {
		left := macroMarket(1, domain.VenueKalshi, "US CPI above 3% in January 2026", close)
		right := macroMarket(2, domain.VenuePolymarket, "US CPI above 3% in March 2027", close)
		gate := p.CheckHardGates(left, right)
		assert.Equal(t, "period_incompatible", gate.FailReason)
	})
}

func TestMacroPipelineConflictingComparators(t *testing.T) {
	p := NewMacroPipeline()
	close := time.Date(2026, 4, 10, 12, 30, 0, 0, time.UTC)

	left := macroMarket(1, domain.VenueKalshi, "US CPI above 3.2% in March 2026", close)
	right := macroMarket(2, domain.VenuePolymarket, "US CPI below 3.2% in March 2026", close)

	score := p.Score(left, right)
	require.NotNil(t, score)
	assert.Contains(t, score.Reason, "penalty=conflicting_comparator")

	rej := p.ShouldAutoReject(left, right, score)
	assert.True(t, rej.ShouldReject)
	assert.Equal(t, "CONFLICTING_COMPARATOR", rej.Rule)
}

func TestMacroBlockingFallsBackToIndicator(t *testing.T) {
	p := NewMacroPipeline()
	close := time.Date(2026, 7, 30, 12, 30, 0, 0, time.UTC)

	// Quarter phrasing on one venue, month phrasing on the other: the
	// strict indicator|period key misses, the bare indicator key pairs them.
	left := macroMarket(1, domain.VenueKalshi, "US GDP growth above 2% in Q2 2026", close)
	right := macroMarket(2, domain.VenuePolymarket, "US GDP growth above 2% in June 2026", close)

	index := p.BuildIndex([]MarketWithSignals{right})
	cands := p.FindCandidates(left, index)
	require.Len(t, cands, 1)
	assert.Equal(t, int64(2), cands[0].Market.ID)
}

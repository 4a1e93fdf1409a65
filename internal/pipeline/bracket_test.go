package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/signals"
)

func bracketPair(leftID int64, threshold, score float64) ScoredPair {
	settle := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	sig := signals.Crypto{
		Kind:       signals.CryptoDailyThreshold,
		Comparator: signals.CompGE,
		Thresholds: []float64{threshold},
		SettleDate: &settle,
		DateType:   signals.DateDayExact,
	}
	sig.Entity = "BITCOIN"
	right := signals.Crypto{
		Kind:       signals.CryptoDailyThreshold,
		Comparator: signals.CompGE,
		Thresholds: []float64{100000},
		SettleDate: &settle,
		DateType:   signals.DateDayExact,
	}
	right.Entity = "BITCOIN"
	return ScoredPair{
		Left:   MarketWithSignals{Market: domain.Market{ID: leftID, Venue: domain.VenueKalshi}, Signals: sig},
		Right:  MarketWithSignals{Market: domain.Market{ID: 100, Venue: domain.VenuePolymarket}, Signals: right},
		Result: &ScoreResult{Score: score, Reason: fmt.Sprintf("t=%.0f", threshold)},
	}
}

func TestGroupBracketsKeepsRepresentative(t *testing.T) {
	// A 95k/100k/105k ladder all matched against the same 100k right market.
	pairs := []ScoredPair{
		bracketPair(1, 95000, 0.80),
		bracketPair(2, 100000, 0.95),
		bracketPair(3, 105000, 0.80),
	}
	out := GroupBrackets(pairs)

	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].Left.Market.ID)
}

func TestGroupBracketsNeverDropsGroupMax(t *testing.T) {
	// The closest-threshold member is not the highest scorer; both survive.
	pairs := []ScoredPair{
		bracketPair(1, 100000, 0.80),
		bracketPair(2, 101000, 0.95),
	}
	out := GroupBrackets(pairs)

	require.Len(t, out, 2)
	best := out[0]
	for _, p := range out {
		if p.Result.Score > best.Result.Score {
			best = p
		}
	}
	assert.Equal(t, 0.95, best.Result.Score)
}

func TestGroupBracketsLeavesOtherTopicsAlone(t *testing.T) {
	rates := signals.Rates{Bank: signals.BankFed, MeetingMonth: "2026-03"}
	pair := ScoredPair{
		Left:   MarketWithSignals{Market: domain.Market{ID: 7}, Signals: rates},
		Right:  MarketWithSignals{Market: domain.Market{ID: 8}, Signals: rates},
		Result: &ScoreResult{Score: 0.9},
	}

	out := GroupBrackets([]ScoredPair{pair})
	require.Len(t, out, 1)
	assert.Equal(t, int64(7), out[0].Left.Market.ID)
}

func TestGroupBracketsSingletonPassesThrough(t *testing.T) {
	pairs := []ScoredPair{bracketPair(1, 100000, 0.9)}
	out := GroupBrackets(pairs)
	require.Len(t, out, 1)
}

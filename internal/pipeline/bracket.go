package pipeline

import (
	"math"
	"sort"

	"github.com/pmxlab/crosslink/internal/signals"
)

// ScoredPair is one gated, scored (left, right) pair flowing toward the
// link store.
type ScoredPair struct {
	Left   MarketWithSignals
	Right  MarketWithSignals
	Result *ScoreResult
}

// bracketKey groups crypto markets that form a ladder of adjacent numeric
// thresholds: same entity, same settle date, same comparator family.
func bracketKey(s signals.Crypto) (string, bool) {
	if s.Entity == "" || s.SettleDate == nil {
		return "", false
	}
	if s.Comparator != signals.CompGE && s.Comparator != signals.CompLE {
		return "", false
	}
	return s.Entity + "|" + signals.DayKeyOf(*s.SettleDate) + "|" + string(s.Comparator), true
}

// GroupBrackets suppresses near-duplicate suggestions from crypto bracket
// ladders. Per bracket it keeps the representative — the left market whose
// threshold lands closest to its best right-side threshold — plus any
// member that outscores the representative. The best score in a group is
// never dropped.
func GroupBrackets(pairs []ScoredPair) []ScoredPair {
	groups := map[string][]ScoredPair{}
	var out []ScoredPair

	for _, p := range pairs {
		s, ok := p.Left.Signals.(signals.Crypto)
		if !ok {
			out = append(out, p)
			continue
		}
		key, ok := bracketKey(s)
		if !ok || len(s.Thresholds) == 0 {
			out = append(out, p)
			continue
		}
		groups[key] = append(groups[key], p)
	}

	for _, group := range groups {
		if len(group) <= 1 {
			out = append(out, group...)
			continue
		}
		rep := representative(group)
		repScore := group[rep].Result.Score
		for i, p := range group {
			if i == rep || p.Result.Score > repScore {
				out = append(out, p)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.Score > out[j].Result.Score
	})
	return out
}

// representative picks the group member whose left threshold sits closest
// to the matched right-side threshold. Ties go to the higher score.
func representative(group []ScoredPair) int {
	best, bestGap := 0, math.Inf(1)
	for i, p := range group {
		l := p.Left.Signals.(signals.Crypto)
		r, ok := p.Right.Signals.(signals.Crypto)
		if !ok || len(l.Thresholds) == 0 || len(r.Thresholds) == 0 {
			continue
		}
		gap := math.Inf(1)
		for _, lt := range l.Thresholds {
			for _, rt := range r.Thresholds {
				if d := math.Abs(lt - rt); d < gap {
					gap = d
				}
			}
		}
		if gap < bestGap || (gap == bestGap && p.Result.Score > group[best].Result.Score) {
			best, bestGap = i, gap
		}
	}
	return best
}

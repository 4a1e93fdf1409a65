package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/signals"
)

var sportsWeights = map[string]float64{
	"league": 0.25,
	"teams":  0.25,
	"time":   0.15,
	"line":   0.15,
	"type":   0.10,
	"text":   0.10,
}

var sportsKeywords = []string{
	"nba", "nfl", "mlb", "nhl", "epl", "premier league", "ufc", "moneyline",
	"spread", " vs ", " vs. ", " at ",
}

// SportsPipeline matches game markets on league, team pair, and start
// bucket. Kalshi mutually-exclusive event families are excluded at fetch:
// their legs are bracket-style and do not correspond one-to-one across
// venues.
type SportsPipeline struct{}

func NewSportsPipeline() *SportsPipeline { return &SportsPipeline{} }

func (p *SportsPipeline) Topic() domain.Topic       { return domain.TopicSports }
func (p *SportsPipeline) AlgoVersion() string       { return "sports@2.5.0:SPORTS" }
func (p *SportsPipeline) SupportsAutoConfirm() bool { return true }
func (p *SportsPipeline) SupportsAutoReject() bool  { return true }

func (p *SportsPipeline) Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchMarkets(ctx, repo, opts, domain.TopicSports, sportsKeywords, func(m domain.Market) (any, bool) {
		sig := signals.ExtractSports(m.Title, m.CloseTime, m.Metadata)
		if sig.MVE {
			return nil, false
		}
		return sig, sig.TeamA != "" || sig.League != ""
	})
}

func sportsKey(s signals.Sports) string {
	if s.League == "" || s.TeamA == "" || s.TeamB == "" || s.StartBucket == nil {
		return ""
	}
	return s.League + "|" + s.TeamA + "|" + s.TeamB + "|" + signals.DayKeyOf(*s.StartBucket) +
		s.StartBucket.UTC().Format("T15:04")
}

// sportsTeamsKey drops the time bucket, the broadened fallback when the
// venues disagree on tip-off by more than a bucket.
func sportsTeamsKey(s signals.Sports) string {
	if s.League == "" || s.TeamA == "" || s.TeamB == "" {
		return ""
	}
	return "t:" + s.League + "|" + s.TeamA + "|" + s.TeamB
}

func (p *SportsPipeline) BuildIndex(markets []MarketWithSignals) Index {
	idx := Index{}
	for _, m := range markets {
		s := m.Signals.(signals.Sports)
		if k := sportsKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
		if k := sportsTeamsKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
	}
	return idx
}

func (p *SportsPipeline) FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals {
	s := left.Signals.(signals.Sports)
	if k := sportsKey(s); k != "" {
		if cands := index[k]; len(cands) > 0 {
			return dedupeCandidates(append([]MarketWithSignals(nil), cands...))
		}
	}
	if k := sportsTeamsKey(s); k != "" {
		return dedupeCandidates(append([]MarketWithSignals(nil), index[k]...))
	}
	return nil
}

// CheckHardGates: league, team pair, and game period must all agree.
func (p *SportsPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	l := left.Signals.(signals.Sports)
	r := right.Signals.(signals.Sports)
	switch {
	case l.League == "" || r.League == "":
		return GateResult{FailReason: "missing_league"}
	case l.League != r.League:
		return GateResult{FailReason: "league_mismatch"}
	case l.TeamA == "" || r.TeamA == "":
		return GateResult{FailReason: "missing_teams"}
	case l.TeamA != r.TeamA || l.TeamB != r.TeamB:
		return GateResult{FailReason: "team_mismatch"}
	case l.Period != r.Period:
		return GateResult{FailReason: "period_mismatch"}
	}
	return GateResult{Passed: true}
}

// lineScore decays by 0.3 per point of line difference: a half-point hook
// is nearly the same market, a two-point move is not.
func lineScore(a, b *float64) float64 {
	if a == nil && b == nil {
		return 1.0
	}
	if a == nil || b == nil {
		return 0.5
	}
	diff := math.Abs(*a - *b)
	return clamp01(1.0 - 0.3*diff)
}

func (p *SportsPipeline) Score(left, right MarketWithSignals) *ScoreResult {
	if gate := p.CheckHardGates(left, right); !gate.Passed {
		return nil
	}
	l := left.Signals.(signals.Sports)
	r := right.Signals.(signals.Sports)

	typeScore := 0.5
	if l.MarketType != signals.SportsUnknown && r.MarketType != signals.SportsUnknown {
		if l.MarketType == r.MarketType {
			typeScore = 1.0
		} else {
			typeScore = 0.0
		}
	}

	parts := []Component{
		{"league", 1.0},
		{"teams", 1.0},
		{"time", bucketScore(l.StartBucket, r.StartBucket)},
		{"line", lineScore(l.Line, r.Line)},
		{"type", typeScore},
		{"text", textScore(l.Tokens, r.Tokens)},
	}
	score := weightedSum(parts, sportsWeights)

	tier := TierWeak
	if parts[2].Value == 1 && typeScore == 1 {
		tier = TierStrong
	}
	return &ScoreResult{Score: score, Reason: reasonString(parts), Tier: tier, Components: parts}
}

// ShouldAutoConfirm fires only for moneylines on the exact same event.
// Spreads and totals stay human-reviewed: venue line conventions differ.
func (p *SportsPipeline) ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult {
	l := left.Signals.(signals.Sports)
	r := right.Signals.(signals.Sports)
	if l.MarketType != signals.SportsMoneyline || r.MarketType != signals.SportsMoneyline {
		return AutoConfirmResult{}
	}
	if score.Score < 0.92 {
		return AutoConfirmResult{}
	}
	if l.TeamB == "" || l.StartBucket == nil || r.StartBucket == nil || !l.StartBucket.Equal(*r.StartBucket) {
		return AutoConfirmResult{}
	}
	return AutoConfirmResult{ShouldConfirm: true, Rule: "MONEYLINE_EXACT_EVENT_MATCH", Confidence: score.Score}
}

func (p *SportsPipeline) ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult {
	l := left.Signals.(signals.Sports)
	r := right.Signals.(signals.Sports)
	if l.MarketType != signals.SportsUnknown && r.MarketType != signals.SportsUnknown && l.MarketType != r.MarketType {
		return AutoRejectResult{ShouldReject: true, Rule: "MARKET_TYPE_MISMATCH",
			Reason: fmt.Sprintf("left=%s right=%s", l.MarketType, r.MarketType)}
	}
	if score.Score < 0.60 {
		return AutoRejectResult{ShouldReject: true, Rule: "SCORE_FLOOR",
			Reason: fmt.Sprintf("score=%.2f below 0.60", score.Score)}
	}
	return AutoRejectResult{}
}

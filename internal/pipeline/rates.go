package pipeline

import (
	"context"
	"fmt"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/signals"
)

var ratesWeights = map[string]float64{
	"bank":   0.30,
	"period": 0.30,
	"bps":    0.25,
	"text":   0.15,
}

var ratesKeywords = []string{
	"fed", "fomc", "ecb", "bank of england", "bank of japan", "rate cut",
	"rate hike", "bps", "basis point", "interest rate",
}

// RatesPipeline matches central-bank decision markets on bank, meeting
// month, and the decided basis-point move.
type RatesPipeline struct{}

func NewRatesPipeline() *RatesPipeline { return &RatesPipeline{} }

func (p *RatesPipeline) Topic() domain.Topic       { return domain.TopicRates }
func (p *RatesPipeline) AlgoVersion() string       { return "rates@2.3.1:RATES" }
func (p *RatesPipeline) SupportsAutoConfirm() bool { return true }
func (p *RatesPipeline) SupportsAutoReject() bool  { return true }

func (p *RatesPipeline) Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchMarkets(ctx, repo, opts, domain.TopicRates, ratesKeywords, func(m domain.Market) (any, bool) {
		sig := signals.ExtractRates(m.Title, m.CloseTime)
		return sig, sig.Bank != signals.BankUnknown
	})
}

func ratesKey(s signals.Rates) string {
	if s.MeetingMonth == "" {
		return ""
	}
	return string(s.Bank) + "|" + s.MeetingMonth
}

func (p *RatesPipeline) BuildIndex(markets []MarketWithSignals) Index {
	idx := Index{}
	for _, m := range markets {
		s := m.Signals.(signals.Rates)
		if k := ratesKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
		idx["b:"+string(s.Bank)] = append(idx["b:"+string(s.Bank)], m)
	}
	return idx
}

func (p *RatesPipeline) FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals {
	s := left.Signals.(signals.Rates)
	if k := ratesKey(s); k != "" {
		if cands := index[k]; len(cands) > 0 {
			return dedupeCandidates(append([]MarketWithSignals(nil), cands...))
		}
	}
	return dedupeCandidates(append([]MarketWithSignals(nil), index["b:"+string(s.Bank)]...))
}

// CheckHardGates: different central banks never match, and opposite actions
// (cut vs hike) are inverted questions.
func (p *RatesPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	l := left.Signals.(signals.Rates)
	r := right.Signals.(signals.Rates)
	switch {
	case l.Bank == signals.BankUnknown || r.Bank == signals.BankUnknown:
		return GateResult{FailReason: "missing_bank"}
	case l.Bank != r.Bank:
		return GateResult{FailReason: "bank_mismatch"}
	case opposedActions(l.Action, r.Action):
		return GateResult{FailReason: "action_conflict"}
	case l.MeetingMonth != "" && r.MeetingMonth != "" && PeriodCompat(l.MeetingMonth, r.MeetingMonth) == PeriodIncompatible:
		return GateResult{FailReason: "meeting_incompatible"}
	}
	return GateResult{Passed: true}
}

func opposedActions(a, b signals.RateAction) bool {
	if a == signals.ActionUnknown || b == signals.ActionUnknown {
		return false
	}
	return (a == signals.ActionCut && b == signals.ActionHike) ||
		(a == signals.ActionHike && b == signals.ActionCut)
}

func (p *RatesPipeline) Score(left, right MarketWithSignals) *ScoreResult {
	if gate := p.CheckHardGates(left, right); !gate.Passed {
		return nil
	}
	l := left.Signals.(signals.Rates)
	r := right.Signals.(signals.Rates)

	bps := 0.5 // one or both missing
	if l.BasisPoints != nil && r.BasisPoints != nil {
		if *l.BasisPoints == *r.BasisPoints {
			bps = 1.0
		} else {
			bps = 0.0
		}
	}

	parts := []Component{
		{"bank", 1.0},
		{"period", periodScore(l.MeetingMonth, r.MeetingMonth)},
		{"bps", bps},
		{"text", textScore(l.Tokens, r.Tokens)},
	}
	score := weightedSum(parts, ratesWeights)

	tier := TierWeak
	if parts[1].Value == 1 && bps == 1 {
		tier = TierStrong
	}
	return &ScoreResult{Score: score, Reason: reasonString(parts), Tier: tier, Components: parts}
}

func (p *RatesPipeline) ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult {
	l := left.Signals.(signals.Rates)
	r := right.Signals.(signals.Rates)
	if score.Score < 0.88 {
		return AutoConfirmResult{}
	}
	if l.MeetingMonth == "" || l.MeetingMonth != r.MeetingMonth {
		return AutoConfirmResult{}
	}
	if l.BasisPoints == nil || r.BasisPoints == nil || *l.BasisPoints != *r.BasisPoints {
		return AutoConfirmResult{}
	}
	return AutoConfirmResult{ShouldConfirm: true, Rule: "RATES_SAME_MEETING_SAME_MOVE", Confidence: score.Score}
}

func (p *RatesPipeline) ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult {
	l := left.Signals.(signals.Rates)
	r := right.Signals.(signals.Rates)
	if l.BasisPoints != nil && r.BasisPoints != nil && *l.BasisPoints != *r.BasisPoints &&
		l.Action == r.Action && l.Action != signals.ActionUnknown {
		return AutoRejectResult{ShouldReject: true, Rule: "BPS_MISMATCH",
			Reason: fmt.Sprintf("left=%dbps right=%dbps", *l.BasisPoints, *r.BasisPoints)}
	}
	if score.Score < 0.55 {
		return AutoRejectResult{ShouldReject: true, Rule: "SCORE_FLOOR",
			Reason: fmt.Sprintf("score=%.2f below 0.55", score.Score)}
	}
	return AutoRejectResult{}
}

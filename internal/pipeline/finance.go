package pipeline

import (
	"context"
	"fmt"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/signals"
)

var financeWeights = map[string]float64{
	"instrument": 0.35,
	"period":     0.15,
	"target":     0.25,
	"text":       0.10,
	"direction":  0.15,
}

var financeKeywords = []string{
	"s&p", "sp500", "spx", "nasdaq", "dow", "russell", "vix", "treasury",
	"10-year", "stock", "all-time high", "market cap",
}

// FinancePipeline matches index and single-name level markets.
type FinancePipeline struct{}

func NewFinancePipeline() *FinancePipeline { return &FinancePipeline{} }

func (p *FinancePipeline) Topic() domain.Topic       { return domain.TopicFinance }
func (p *FinancePipeline) AlgoVersion() string       { return "finance@2.0.3:FINANCE" }
func (p *FinancePipeline) SupportsAutoConfirm() bool { return true }
func (p *FinancePipeline) SupportsAutoReject() bool  { return true }

func (p *FinancePipeline) Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchMarkets(ctx, repo, opts, domain.TopicFinance, financeKeywords, func(m domain.Market) (any, bool) {
		sig := signals.ExtractFinance(m.Title, m.CloseTime)
		return sig, sig.Instrument != ""
	})
}

func financeKey(s signals.Finance) string {
	if s.PeriodKey == "" {
		return ""
	}
	return s.Instrument + "|" + s.PeriodKey
}

func (p *FinancePipeline) BuildIndex(markets []MarketWithSignals) Index {
	idx := Index{}
	for _, m := range markets {
		s := m.Signals.(signals.Finance)
		if k := financeKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
		idx["i:"+s.Instrument] = append(idx["i:"+s.Instrument], m)
	}
	return idx
}

func (p *FinancePipeline) FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals {
	s := left.Signals.(signals.Finance)
	if k := financeKey(s); k != "" {
		if cands := index[k]; len(cands) > 0 {
			return dedupeCandidates(append([]MarketWithSignals(nil), cands...))
		}
	}
	return dedupeCandidates(append([]MarketWithSignals(nil), index["i:"+s.Instrument]...))
}

func (p *FinancePipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	l := left.Signals.(signals.Finance)
	r := right.Signals.(signals.Finance)
	switch {
	case l.Instrument == "" || r.Instrument == "":
		return GateResult{FailReason: "missing_instrument"}
	case l.Instrument != r.Instrument:
		return GateResult{FailReason: "instrument_mismatch"}
	case l.PeriodKey != "" && r.PeriodKey != "" && PeriodCompat(l.PeriodKey, r.PeriodKey) == PeriodIncompatible:
		return GateResult{FailReason: "period_incompatible"}
	}
	return GateResult{Passed: true}
}

func (p *FinancePipeline) Score(left, right MarketWithSignals) *ScoreResult {
	if gate := p.CheckHardGates(left, right); !gate.Passed {
		return nil
	}
	l := left.Signals.(signals.Finance)
	r := right.Signals.(signals.Finance)

	target := 0.5
	if l.Target != nil && r.Target != nil {
		target = numberScore(*l.Target, *r.Target)
	}
	direction := 0.5
	if l.Direction != signals.DirUnknown && r.Direction != signals.DirUnknown {
		if l.Direction == r.Direction {
			direction = 1.0
		} else {
			direction = 0.0
		}
	}

	parts := []Component{
		{"instrument", 1.0},
		{"period", periodScore(l.PeriodKey, r.PeriodKey)},
		{"target", target},
		{"text", textScore(l.Tokens, r.Tokens)},
		{"direction", direction},
	}
	score := weightedSum(parts, financeWeights)

	var extras []string
	if conflictingComparators(l.Comparator, r.Comparator) {
		score = clamp01(score * conflictPenalty)
		extras = append(extras, "penalty=conflicting_comparator")
	}

	tier := TierWeak
	if parts[1].Value == 1 && target == 1 && direction == 1 {
		tier = TierStrong
	}
	return &ScoreResult{Score: score, Reason: reasonString(parts, extras...), Tier: tier, Components: parts}
}

func (p *FinancePipeline) ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult {
	l := left.Signals.(signals.Finance)
	r := right.Signals.(signals.Finance)
	if score.Score < 0.90 {
		return AutoConfirmResult{}
	}
	if PeriodCompat(l.PeriodKey, r.PeriodKey) != PeriodExact {
		return AutoConfirmResult{}
	}
	if l.Target == nil || r.Target == nil || !numbersCompatible(*l.Target, *r.Target) {
		return AutoConfirmResult{}
	}
	if l.Direction == signals.DirUnknown || l.Direction != r.Direction {
		return AutoConfirmResult{}
	}
	return AutoConfirmResult{ShouldConfirm: true, Rule: "FINANCE_EXACT_TARGET", Confidence: score.Score}
}

func (p *FinancePipeline) ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult {
	l := left.Signals.(signals.Finance)
	r := right.Signals.(signals.Finance)
	if conflictingComparators(l.Comparator, r.Comparator) {
		return AutoRejectResult{ShouldReject: true, Rule: "CONFLICTING_COMPARATOR",
			Reason: fmt.Sprintf("left=%s right=%s", l.Comparator, r.Comparator)}
	}
	if l.Direction != signals.DirUnknown && r.Direction != signals.DirUnknown && l.Direction != r.Direction {
		return AutoRejectResult{ShouldReject: true, Rule: "DIRECTION_CONFLICT",
			Reason: fmt.Sprintf("left=%s right=%s", l.Direction, r.Direction)}
	}
	if score.Score < 0.55 {
		return AutoRejectResult{ShouldReject: true, Rule: "SCORE_FLOOR",
			Reason: fmt.Sprintf("score=%.2f below 0.55", score.Score)}
	}
	return AutoRejectResult{}
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/signals"
)

var commoditiesWeights = map[string]float64{
	"underlying": 0.45,
	"date":       0.30,
	"cmp":        0.10,
	"num":        0.10,
	"text":       0.05,
}

var commoditiesKeywords = []string{
	"oil", "wti", "brent", "crude", "natural gas", "natgas", "gold",
	"silver", "copper", "corn", "wheat", "soybean", "gasoline",
}

// CommoditiesPipeline matches commodity price markets on underlying and
// contract month.
type CommoditiesPipeline struct{}

func NewCommoditiesPipeline() *CommoditiesPipeline { return &CommoditiesPipeline{} }

func (p *CommoditiesPipeline) Topic() domain.Topic       { return domain.TopicCommodities }
func (p *CommoditiesPipeline) AlgoVersion() string       { return "commodities@1.9.4:COMMODITIES" }
func (p *CommoditiesPipeline) SupportsAutoConfirm() bool { return true }
func (p *CommoditiesPipeline) SupportsAutoReject() bool  { return true }

func (p *CommoditiesPipeline) Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchMarkets(ctx, repo, opts, domain.TopicCommodities, commoditiesKeywords, func(m domain.Market) (any, bool) {
		sig := signals.ExtractCommodities(m.Title, m.CloseTime)
		return sig, sig.Underlying != ""
	})
}

func commoditiesKey(s signals.Commodities) string {
	if s.ContractMonth == "" {
		return ""
	}
	return s.Underlying + "|" + s.ContractMonth
}

func (p *CommoditiesPipeline) BuildIndex(markets []MarketWithSignals) Index {
	idx := Index{}
	for _, m := range markets {
		s := m.Signals.(signals.Commodities)
		if k := commoditiesKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
		idx["u:"+s.Underlying] = append(idx["u:"+s.Underlying], m)
	}
	return idx
}

func (p *CommoditiesPipeline) FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals {
	s := left.Signals.(signals.Commodities)
	if k := commoditiesKey(s); k != "" {
		if cands := index[k]; len(cands) > 0 {
			return dedupeCandidates(append([]MarketWithSignals(nil), cands...))
		}
	}
	return dedupeCandidates(append([]MarketWithSignals(nil), index["u:"+s.Underlying]...))
}

// CheckHardGates: WTI and Brent are different markets even when every other
// field lines up, so the underlying is a strict gate.
func (p *CommoditiesPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	l := left.Signals.(signals.Commodities)
	r := right.Signals.(signals.Commodities)
	switch {
	case l.Underlying == "" || r.Underlying == "":
		return GateResult{FailReason: "missing_underlying"}
	case l.Underlying != r.Underlying:
		return GateResult{FailReason: "underlying_mismatch"}
	case l.ContractMonth != "" && r.ContractMonth != "" && PeriodCompat(l.ContractMonth, r.ContractMonth) == PeriodIncompatible:
		return GateResult{FailReason: "contract_month_incompatible"}
	}
	return GateResult{Passed: true}
}

func (p *CommoditiesPipeline) Score(left, right MarketWithSignals) *ScoreResult {
	if gate := p.CheckHardGates(left, right); !gate.Passed {
		return nil
	}
	l := left.Signals.(signals.Commodities)
	r := right.Signals.(signals.Commodities)

	parts := []Component{
		{"underlying", 1.0},
		{"date", dateScore(l.TargetDate, r.TargetDate, l.DateType, r.DateType)},
		{"cmp", comparatorScore(l.Comparator, r.Comparator)},
		{"num", bestNumberScore(l.Thresholds, r.Thresholds)},
		{"text", textScore(l.Tokens, r.Tokens)},
	}
	score := weightedSum(parts, commoditiesWeights)

	var extras []string
	if conflictingComparators(l.Comparator, r.Comparator) {
		score = clamp01(score * conflictPenalty)
		extras = append(extras, "penalty=conflicting_comparator")
	}

	tier := TierWeak
	if parts[1].Value >= 0.85 && parts[3].Value == 1 {
		tier = TierStrong
	}
	return &ScoreResult{Score: score, Reason: reasonString(parts, extras...), Tier: tier, Components: parts}
}

func (p *CommoditiesPipeline) ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult {
	l := left.Signals.(signals.Commodities)
	r := right.Signals.(signals.Commodities)
	if score.Score < 0.88 {
		return AutoConfirmResult{}
	}
	if l.ContractMonth == "" || l.ContractMonth != r.ContractMonth {
		return AutoConfirmResult{}
	}
	if len(l.Thresholds) == 0 || len(r.Thresholds) == 0 || bestNumberScore(l.Thresholds, r.Thresholds) < 1.0 {
		return AutoConfirmResult{}
	}
	if l.Comparator == signals.CompUnknown || l.Comparator != r.Comparator {
		return AutoConfirmResult{}
	}
	return AutoConfirmResult{ShouldConfirm: true, Rule: "COMMODITY_EXACT_CONTRACT", Confidence: score.Score}
}

func (p *CommoditiesPipeline) ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult {
	l := left.Signals.(signals.Commodities)
	r := right.Signals.(signals.Commodities)
	if conflictingComparators(l.Comparator, r.Comparator) {
		return AutoRejectResult{ShouldReject: true, Rule: "CONFLICTING_COMPARATOR",
			Reason: fmt.Sprintf("left=%s right=%s", l.Comparator, r.Comparator)}
	}
	if score.Score < 0.55 {
		return AutoRejectResult{ShouldReject: true, Rule: "SCORE_FLOOR",
			Reason: fmt.Sprintf("score=%.2f below 0.55", score.Score)}
	}
	return AutoRejectResult{}
}

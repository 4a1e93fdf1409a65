package pipeline

import (
	"context"
	"fmt"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/signals"
)

var macroWeights = map[string]float64{
	"entity": 0.50,
	"period": 0.35,
	"text":   0.15,
}

var macroKeywords = []string{
	"cpi", "inflation", "pce", "gdp", "payroll", "nonfarm", "unemployment",
	"jobless", "retail sales", "recession", "ism", "pmi", "shutdown",
	"debt ceiling",
}

// MacroPipeline matches economic-indicator markets. Entities are
// multi-valued; two markets agree when their indicator sets overlap.
type MacroPipeline struct{}

func NewMacroPipeline() *MacroPipeline { return &MacroPipeline{} }

func (p *MacroPipeline) Topic() domain.Topic       { return domain.TopicMacro }
func (p *MacroPipeline) AlgoVersion() string       { return "macro@2.1.0:MACRO" }
func (p *MacroPipeline) SupportsAutoConfirm() bool { return true }
func (p *MacroPipeline) SupportsAutoReject() bool  { return true }

func (p *MacroPipeline) Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchMarkets(ctx, repo, opts, domain.TopicMacro, macroKeywords, func(m domain.Market) (any, bool) {
		sig := signals.ExtractMacro(m.Title, m.CloseTime)
		return sig, sig.Entity != ""
	})
}

func macroKey(s signals.Macro) string {
	if s.Entity == "" || s.PeriodKey == "" {
		return ""
	}
	return s.Entity + "|" + s.PeriodKey
}

func (p *MacroPipeline) BuildIndex(markets []MarketWithSignals) Index {
	idx := Index{}
	for _, m := range markets {
		s := m.Signals.(signals.Macro)
		if k := macroKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
		// Weak key on the bare indicator so quarter-vs-month phrasings
		// still meet.
		idx["e:"+s.Entity] = append(idx["e:"+s.Entity], m)
	}
	return idx
}

func (p *MacroPipeline) FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals {
	s := left.Signals.(signals.Macro)
	if k := macroKey(s); k != "" {
		if cands := index[k]; len(cands) > 0 {
			return dedupeCandidates(append([]MarketWithSignals(nil), cands...))
		}
	}
	return dedupeCandidates(append([]MarketWithSignals(nil), index["e:"+s.Entity]...))
}

// CheckHardGates fails on indicator mismatch and on incompatible periods:
// a January CPI print can never settle a March CPI market.
func (p *MacroPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	l := left.Signals.(signals.Macro)
	r := right.Signals.(signals.Macro)
	switch {
	case l.Entity == "" || r.Entity == "":
		return GateResult{FailReason: "missing_entity"}
	case l.Entity != r.Entity:
		return GateResult{FailReason: "entity_mismatch"}
	case l.PeriodKey != "" && r.PeriodKey != "" && PeriodCompat(l.PeriodKey, r.PeriodKey) == PeriodIncompatible:
		return GateResult{FailReason: "period_incompatible"}
	}
	return GateResult{Passed: true}
}

func (p *MacroPipeline) Score(left, right MarketWithSignals) *ScoreResult {
	if gate := p.CheckHardGates(left, right); !gate.Passed {
		return nil
	}
	l := left.Signals.(signals.Macro)
	r := right.Signals.(signals.Macro)

	entity := entityScore(l.Entity, r.Entity)
	if n := overlapCount(l.Entities, r.Entities); n >= 2 {
		// Indicator and country both agree.
		entity = 1.0
	}

	parts := []Component{
		{"entity", entity},
		{"period", periodScore(l.PeriodKey, r.PeriodKey)},
		{"text", textScore(l.Tokens, r.Tokens)},
	}
	score := weightedSum(parts, macroWeights)

	var extras []string
	if conflictingComparators(l.Comparator, r.Comparator) {
		score = clamp01(score * conflictPenalty)
		extras = append(extras, "penalty=conflicting_comparator")
	}

	tier := TierWeak
	if parts[0].Value == 1 && parts[1].Value == 1 {
		tier = TierStrong
	}
	return &ScoreResult{Score: score, Reason: reasonString(parts, extras...), Tier: tier, Components: parts}
}

func (p *MacroPipeline) ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult {
	l := left.Signals.(signals.Macro)
	r := right.Signals.(signals.Macro)
	if score.Score < 0.88 {
		return AutoConfirmResult{}
	}
	if l.Entity == "" || l.Entity != r.Entity {
		return AutoConfirmResult{}
	}
	if PeriodCompat(l.PeriodKey, r.PeriodKey) != PeriodExact {
		return AutoConfirmResult{}
	}
	if len(l.Thresholds) > 0 && len(r.Thresholds) > 0 && bestNumberScore(l.Thresholds, r.Thresholds) < 1.0 {
		return AutoConfirmResult{}
	}
	return AutoConfirmResult{ShouldConfirm: true, Rule: "MACRO_EXACT_PERIOD", Confidence: score.Score}
}

func (p *MacroPipeline) ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult {
	l := left.Signals.(signals.Macro)
	r := right.Signals.(signals.Macro)
	if conflictingComparators(l.Comparator, r.Comparator) {
		return AutoRejectResult{ShouldReject: true, Rule: "CONFLICTING_COMPARATOR",
			Reason: fmt.Sprintf("left=%s right=%s", l.Comparator, r.Comparator)}
	}
	if score.Score < 0.50 {
		return AutoRejectResult{ShouldReject: true, Rule: "SCORE_FLOOR",
			Reason: fmt.Sprintf("score=%.2f below 0.50", score.Score)}
	}
	return AutoRejectResult{}
}

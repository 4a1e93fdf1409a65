package pipeline

import (
	"context"
	"fmt"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/signals"
)

var universalWeights = map[string]float64{
	"entity": 0.40,
	"period": 0.25,
	"text":   0.35,
}

// UniversalPipeline serves the topics without dedicated structure:
// geopolitics, entertainment, climate, and the universal catch-all. Entity
// set plus period plus text is all the evidence available, so it never
// auto-confirms.
type UniversalPipeline struct {
	topic domain.Topic
}

func NewUniversalPipeline(topic domain.Topic) *UniversalPipeline {
	return &UniversalPipeline{topic: topic}
}

func (p *UniversalPipeline) Topic() domain.Topic { return p.topic }

func (p *UniversalPipeline) AlgoVersion() string {
	return "universal@1.4.0:" + string(p.topic)
}

func (p *UniversalPipeline) SupportsAutoConfirm() bool { return false }
func (p *UniversalPipeline) SupportsAutoReject() bool  { return true }

func (p *UniversalPipeline) Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchMarkets(ctx, repo, opts, p.topic, nil, func(m domain.Market) (any, bool) {
		sig := signals.ExtractUniversal(m.Title, m.CloseTime)
		return sig, len(sig.Entities) > 0 || len(sig.Tokens) >= 3
	})
}

func (p *UniversalPipeline) BuildIndex(markets []MarketWithSignals) Index {
	idx := Index{}
	for _, m := range markets {
		s := m.Signals.(signals.Universal)
		for _, e := range s.Entities {
			idx["e:"+e] = append(idx["e:"+e], m)
			if s.PeriodKey != "" {
				idx[e+"|"+s.PeriodKey] = append(idx[e+"|"+s.PeriodKey], m)
			}
		}
	}
	return idx
}

func (p *UniversalPipeline) FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals {
	s := left.Signals.(signals.Universal)
	var strict, loose []MarketWithSignals
	for _, e := range s.Entities {
		if s.PeriodKey != "" {
			strict = append(strict, index[e+"|"+s.PeriodKey]...)
		}
		loose = append(loose, index["e:"+e]...)
	}
	if len(strict) > 0 {
		return dedupeCandidates(strict)
	}
	return dedupeCandidates(loose)
}

// CheckHardGates: at least one shared entity, and event years must not
// contradict.
func (p *UniversalPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	l := left.Signals.(signals.Universal)
	r := right.Signals.(signals.Universal)
	if overlapCount(l.Entities, r.Entities) == 0 {
		return GateResult{FailReason: "no_entity_overlap"}
	}
	if l.EventDate != nil && r.EventDate != nil && l.EventDate.Year() != r.EventDate.Year() {
		return GateResult{FailReason: "year_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p *UniversalPipeline) Score(left, right MarketWithSignals) *ScoreResult {
	if gate := p.CheckHardGates(left, right); !gate.Passed {
		return nil
	}
	l := left.Signals.(signals.Universal)
	r := right.Signals.(signals.Universal)

	entity := 0.0
	switch n := overlapCount(l.Entities, r.Entities); {
	case n >= 2:
		entity = 1.0
	case n == 1:
		entity = 0.8
	}

	parts := []Component{
		{"entity", entity},
		{"period", periodScore(l.PeriodKey, r.PeriodKey)},
		{"text", textScore(l.Tokens, r.Tokens)},
	}
	score := weightedSum(parts, universalWeights)

	tier := TierWeak
	if entity == 1 && parts[1].Value == 1 && parts[2].Value >= 0.5 {
		tier = TierStrong
	}
	return &ScoreResult{Score: score, Reason: reasonString(parts), Tier: tier, Components: parts}
}

func (p *UniversalPipeline) ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult {
	return AutoConfirmResult{}
}

func (p *UniversalPipeline) ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult {
	if score.Score < 0.50 {
		return AutoRejectResult{ShouldReject: true, Rule: "SCORE_FLOOR",
			Reason: fmt.Sprintf("score=%.2f below 0.50", score.Score)}
	}
	return AutoRejectResult{}
}

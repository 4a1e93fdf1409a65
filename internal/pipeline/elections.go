package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/signals"
)

var electionsWeights = map[string]float64{
	"country":    0.20,
	"year":       0.15,
	"text":       0.20,
	"office":     0.20,
	"candidates": 0.25,
}

var electionsKeywords = []string{
	"election", "president", "presidential", "senate", "governor", "primary",
	"nominee", "electoral", "ballot", "wins the",
}

// ElectionsPipeline matches election markets. It never auto-confirms:
// election titles carry too much unmodeled nuance (runoffs, certifications,
// popular-vote vs electoral-college phrasing) to trust a rule pack.
type ElectionsPipeline struct{}

func NewElectionsPipeline() *ElectionsPipeline { return &ElectionsPipeline{} }

func (p *ElectionsPipeline) Topic() domain.Topic       { return domain.TopicElections }
func (p *ElectionsPipeline) AlgoVersion() string       { return "elections@1.8.2:ELECTIONS" }
func (p *ElectionsPipeline) SupportsAutoConfirm() bool { return false }
func (p *ElectionsPipeline) SupportsAutoReject() bool  { return true }

func (p *ElectionsPipeline) Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchMarkets(ctx, repo, opts, domain.TopicElections, electionsKeywords, func(m domain.Market) (any, bool) {
		sig := signals.ExtractElections(m.Title, m.CloseTime)
		return sig, sig.Office != signals.OfficeUnknown || len(sig.Candidates) > 0
	})
}

func electionsKey(s signals.Elections) string {
	if s.Country == "" || s.Year == 0 {
		return ""
	}
	return s.Country + "|" + strconv.Itoa(s.Year) + "|" + string(s.Office)
}

func (p *ElectionsPipeline) BuildIndex(markets []MarketWithSignals) Index {
	idx := Index{}
	for _, m := range markets {
		s := m.Signals.(signals.Elections)
		if k := electionsKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
		for _, c := range s.Candidates {
			idx["c:"+c] = append(idx["c:"+c], m)
		}
	}
	return idx
}

func (p *ElectionsPipeline) FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals {
	s := left.Signals.(signals.Elections)
	var out []MarketWithSignals
	if k := electionsKey(s); k != "" {
		out = append(out, index[k]...)
	}
	for _, c := range s.Candidates {
		out = append(out, index["c:"+c]...)
	}
	return dedupeCandidates(out)
}

// CheckHardGates: different countries, different years, and different
// question intents are all structurally incompatible.
func (p *ElectionsPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	l := left.Signals.(signals.Elections)
	r := right.Signals.(signals.Elections)
	switch {
	case l.Country != "" && r.Country != "" && l.Country != r.Country:
		return GateResult{FailReason: "country_mismatch"}
	case l.Year != 0 && r.Year != 0 && l.Year != r.Year:
		return GateResult{FailReason: "year_mismatch"}
	case l.Intent != signals.IntentUnknown && r.Intent != signals.IntentUnknown && l.Intent != r.Intent:
		return GateResult{FailReason: "intent_mismatch"}
	case l.State != "" && r.State != "" && l.State != r.State:
		return GateResult{FailReason: "state_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p *ElectionsPipeline) Score(left, right MarketWithSignals) *ScoreResult {
	if gate := p.CheckHardGates(left, right); !gate.Passed {
		return nil
	}
	l := left.Signals.(signals.Elections)
	r := right.Signals.(signals.Elections)

	country := 0.5
	if l.Country != "" && r.Country != "" {
		country = entityScore(l.Country, r.Country)
	}
	year := 0.5
	if l.Year != 0 && r.Year != 0 {
		if l.Year == r.Year {
			year = 1.0
		} else {
			year = 0.0
		}
	}
	office := 0.5
	if l.Office != signals.OfficeUnknown && r.Office != signals.OfficeUnknown {
		if l.Office == r.Office {
			office = 1.0
		} else {
			office = 0.0
		}
	}
	candidates := 0.0
	switch n := overlapCount(l.Candidates, r.Candidates); {
	case n >= 2:
		candidates = 1.0
	case n == 1:
		candidates = 0.8
	case len(l.Candidates) == 0 || len(r.Candidates) == 0:
		candidates = 0.4
	}

	parts := []Component{
		{"country", country},
		{"year", year},
		{"text", textScore(l.Tokens, r.Tokens)},
		{"office", office},
		{"candidates", candidates},
	}
	score := weightedSum(parts, electionsWeights)

	// Same state is weak extra evidence on top of the weighted sum.
	var extras []string
	if l.State != "" && l.State == r.State {
		score = clamp01(score + 0.05)
		extras = append(extras, "bonus=state")
	}

	tier := TierWeak
	if office == 1 && candidates >= 0.8 && year == 1 {
		tier = TierStrong
	}
	return &ScoreResult{Score: score, Reason: reasonString(parts, extras...), Tier: tier, Components: parts}
}

func (p *ElectionsPipeline) ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult {
	return AutoConfirmResult{}
}

func (p *ElectionsPipeline) ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult {
	l := left.Signals.(signals.Elections)
	r := right.Signals.(signals.Elections)
	if l.Intent != signals.IntentUnknown && r.Intent != signals.IntentUnknown && l.Intent != r.Intent {
		return AutoRejectResult{ShouldReject: true, Rule: "INTENT_MISMATCH",
			Reason: fmt.Sprintf("left=%s right=%s", l.Intent, r.Intent)}
	}
	if len(l.Candidates) > 0 && len(r.Candidates) > 0 && overlapCount(l.Candidates, r.Candidates) == 0 {
		return AutoRejectResult{ShouldReject: true, Rule: "NO_CANDIDATE_OVERLAP",
			Reason: "both sides name candidates, none shared"}
	}
	if score.Score < 0.50 {
		return AutoRejectResult{ShouldReject: true, Rule: "SCORE_FLOOR",
			Reason: fmt.Sprintf("score=%.2f below 0.50", score.Score)}
	}
	return AutoRejectResult{}
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/signals"
)

// cryptoWeights sum to 1.0. Entity dominates: a BTC market can never match
// an ETH market no matter how similar the titles read.
var cryptoWeights = map[string]float64{
	"entity": 0.45,
	"date":   0.25,
	"cmp":    0.10,
	"num":    0.15,
	"text":   0.05,
}

// conflictPenalty shrinks the total when the two sides ask inverted
// questions, pushing the pair under every topic floor.
const conflictPenalty = 0.3

var cryptoKeywords = []string{
	"bitcoin", "btc", "ethereum", "eth ", "solana", "sol ", "xrp", "ripple",
	"dogecoin", "doge", "cardano", "avalanche", "polkadot", "chainlink",
	"litecoin", "crypto",
}

// CryptoPipeline matches crypto threshold markets. One instance serves
// CRYPTO_DAILY, another CRYPTO_INTRADAY; the fetch filter keeps the kinds
// apart.
type CryptoPipeline struct {
	topic domain.Topic
}

func NewCryptoPipeline(topic domain.Topic) *CryptoPipeline {
	return &CryptoPipeline{topic: topic}
}

func (p *CryptoPipeline) Topic() domain.Topic { return p.topic }

func (p *CryptoPipeline) AlgoVersion() string {
	if p.topic == domain.TopicCryptoIntraday {
		return "crypto_intraday@3.0.6:CRYPTO_INTRADAY"
	}
	return "crypto_daily@3.0.6:CRYPTO_DAILY"
}

func (p *CryptoPipeline) SupportsAutoConfirm() bool { return true }
func (p *CryptoPipeline) SupportsAutoReject() bool  { return true }

func (p *CryptoPipeline) Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchMarkets(ctx, repo, opts, p.topic, cryptoKeywords, func(m domain.Market) (any, bool) {
		sig := signals.ExtractCrypto(m.Title, m.CloseTime)
		if sig.Entity == "" {
			return nil, false
		}
		intraday := sig.Kind == signals.CryptoIntradayUpDown
		if p.topic == domain.TopicCryptoIntraday && !intraday {
			return nil, false
		}
		if p.topic == domain.TopicCryptoDaily && intraday {
			return nil, false
		}
		return sig, true
	})
}

// dayKey is the strict blocking key; monthKey is the broadened fallback
// FindCandidates reaches for when the strict key yields nothing.
func cryptoDayKey(s signals.Crypto) string {
	if s.SettleDate == nil {
		return ""
	}
	return "d:" + s.Entity + "|" + signals.DayKeyOf(*s.SettleDate)
}

func cryptoMonthKey(s signals.Crypto) string {
	if s.PeriodKey == "" {
		return ""
	}
	return "m:" + s.Entity + "|" + s.PeriodKey
}

func (p *CryptoPipeline) BuildIndex(markets []MarketWithSignals) Index {
	idx := Index{}
	for _, m := range markets {
		s := m.Signals.(signals.Crypto)
		if k := cryptoDayKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
		if k := cryptoMonthKey(s); k != "" {
			idx[k] = append(idx[k], m)
		}
	}
	return idx
}

func (p *CryptoPipeline) FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals {
	s := left.Signals.(signals.Crypto)
	if k := cryptoDayKey(s); k != "" {
		if cands := index[k]; len(cands) > 0 {
			return dedupeCandidates(append([]MarketWithSignals(nil), cands...))
		}
	}
	if k := cryptoMonthKey(s); k != "" {
		return dedupeCandidates(append([]MarketWithSignals(nil), index[k]...))
	}
	return nil
}

func (p *CryptoPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	l := left.Signals.(signals.Crypto)
	r := right.Signals.(signals.Crypto)
	switch {
	case l.Entity == "" || r.Entity == "":
		return GateResult{FailReason: "missing_entity"}
	case l.Entity != r.Entity:
		return GateResult{FailReason: "entity_mismatch"}
	case l.SettleDate != nil && r.SettleDate != nil && dateScore(l.SettleDate, r.SettleDate, l.DateType, r.DateType) == 0:
		return GateResult{FailReason: "date_out_of_tolerance"}
	}
	return GateResult{Passed: true}
}

func (p *CryptoPipeline) Score(left, right MarketWithSignals) *ScoreResult {
	if gate := p.CheckHardGates(left, right); !gate.Passed {
		return nil
	}
	l := left.Signals.(signals.Crypto)
	r := right.Signals.(signals.Crypto)

	var num float64
	if l.RangeLow != nil && r.RangeLow != nil {
		num = rangeScore(*l.RangeLow, *l.RangeHigh, *r.RangeLow, *r.RangeHigh)
	} else {
		num = bestNumberScore(l.Thresholds, r.Thresholds)
	}

	parts := []Component{
		{"entity", entityScore(l.Entity, r.Entity)},
		{"date", dateScore(l.SettleDate, r.SettleDate, l.DateType, r.DateType)},
		{"cmp", comparatorScore(l.Comparator, r.Comparator)},
		{"num", num},
		{"text", textScore(l.Tokens, r.Tokens)},
	}
	score := weightedSum(parts, cryptoWeights)

	var extras []string
	if conflictingComparators(l.Comparator, r.Comparator) {
		score = clamp01(score * conflictPenalty)
		extras = append(extras, "penalty=conflicting_comparator")
	}

	tier := TierWeak
	if parts[0].Value == 1 && parts[1].Value >= 0.85 && parts[3].Value == 1 {
		tier = TierStrong
	}
	return &ScoreResult{
		Score:      score,
		Reason:     reasonString(parts, extras...),
		Tier:       tier,
		Components: parts,
	}
}

// ShouldAutoConfirm requires every field to agree exactly: same entity, both
// dates title- or API-anchored to the same day, same comparator family,
// thresholds inside tolerance, and a minimum of shared title text.
func (p *CryptoPipeline) ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult {
	l := left.Signals.(signals.Crypto)
	r := right.Signals.(signals.Crypto)

	if l.Entity == "" || l.Entity != r.Entity {
		return AutoConfirmResult{}
	}
	if l.DateType != signals.DateDayExact || r.DateType != signals.DateDayExact {
		return AutoConfirmResult{}
	}
	if l.SettleDate == nil || r.SettleDate == nil ||
		signals.DayKeyOf(*l.SettleDate) != signals.DayKeyOf(*r.SettleDate) {
		return AutoConfirmResult{}
	}
	if l.Comparator == signals.CompUnknown || l.Comparator != r.Comparator {
		return AutoConfirmResult{}
	}
	switch {
	case l.RangeLow != nil && r.RangeLow != nil:
		if rangeScore(*l.RangeLow, *l.RangeHigh, *r.RangeLow, *r.RangeHigh) < 1.0 {
			return AutoConfirmResult{}
		}
	case len(l.Thresholds) > 0 && len(r.Thresholds) > 0:
		if bestNumberScore(l.Thresholds, r.Thresholds) < 1.0 {
			return AutoConfirmResult{}
		}
	default:
		return AutoConfirmResult{}
	}
	if textScore(l.Tokens, r.Tokens) < 0.12 {
		return AutoConfirmResult{}
	}
	return AutoConfirmResult{
		ShouldConfirm: true,
		Rule:          "CRYPTO_EXACT_FIELDS",
		Confidence:    score.Score,
	}
}

func (p *CryptoPipeline) ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult {
	l := left.Signals.(signals.Crypto)
	r := right.Signals.(signals.Crypto)
	if conflictingComparators(l.Comparator, r.Comparator) {
		return AutoRejectResult{
			ShouldReject: true,
			Rule:         "CONFLICTING_COMPARATOR",
			Reason:       fmt.Sprintf("left=%s right=%s", l.Comparator, r.Comparator),
		}
	}
	if score.Score < 0.50 {
		return AutoRejectResult{
			ShouldReject: true,
			Rule:         "SCORE_FLOOR",
			Reason:       fmt.Sprintf("score=%.2f below 0.50", score.Score),
		}
	}
	return AutoRejectResult{}
}

// Package pipeline implements the per-topic matching pipelines: candidate
// blocking, hard gates, weighted scoring, and the auto-confirm/auto-reject
// rule packs. The engine drives pipelines only through the Pipeline
// interface; signal types stay internal to each implementation.
package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/persistence"
)

// MarketWithSignals pairs a market with its extracted topic signals. The
// Signals payload is the extractor output for the owning pipeline's topic;
// pipelines assert it back to their concrete type.
type MarketWithSignals struct {
	Market  domain.Market
	Signals any
}

// Index is the blocking index over one venue's markets: blocking key to the
// markets that share it.
type Index map[string][]MarketWithSignals

// FetchOptions narrows a pipeline fetch to one venue.
type FetchOptions struct {
	Venue         domain.Venue
	LookbackHours int
	Limit         int
}

// GateResult reports a hard-gate evaluation.
type GateResult struct {
	Passed     bool
	FailReason string
}

// Tier grades the evidence backing a score.
type Tier string

const (
	TierStrong Tier = "STRONG"
	TierWeak   Tier = "WEAK"
)

// Component is one named score contribution, kept for the reason string.
type Component struct {
	Name  string
	Value float64
}

// ScoreResult is the weighted-scoring outcome for one pair.
type ScoreResult struct {
	Score      float64
	Reason     string
	Tier       Tier
	Components []Component
}

// Component returns a named component value, or -1 when absent.
func (s *ScoreResult) Component(name string) float64 {
	for _, c := range s.Components {
		if c.Name == name {
			return c.Value
		}
	}
	return -1
}

// AutoConfirmResult reports an auto-confirm rule evaluation.
type AutoConfirmResult struct {
	ShouldConfirm bool
	Rule          string
	Confidence    float64
}

// AutoRejectResult reports an auto-reject rule evaluation.
type AutoRejectResult struct {
	ShouldReject bool
	Rule         string
	Reason       string
}

// Pipeline is the five-method matching contract plus the optional auto
// rules. Implementations are stateless after construction.
type Pipeline interface {
	Topic() domain.Topic
	AlgoVersion() string
	SupportsAutoConfirm() bool
	SupportsAutoReject() bool

	Fetch(ctx context.Context, repo persistence.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error)
	BuildIndex(markets []MarketWithSignals) Index
	FindCandidates(left MarketWithSignals, index Index) []MarketWithSignals
	CheckHardGates(left, right MarketWithSignals) GateResult
	Score(left, right MarketWithSignals) *ScoreResult

	ShouldAutoConfirm(left, right MarketWithSignals, score *ScoreResult) AutoConfirmResult
	ShouldAutoReject(left, right MarketWithSignals, score *ScoreResult) AutoRejectResult
}

var (
	registryMu sync.RWMutex
	registry   = map[domain.Topic]Pipeline{}
)

// Register adds a pipeline to the process-wide registry. Re-registering the
// same topic overwrites, so Register is idempotent for identical pipelines.
func Register(p Pipeline) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Topic()] = p
}

// Get returns the pipeline registered for a topic.
func Get(topic domain.Topic) (Pipeline, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[topic]
	return p, ok
}

// RegisteredTopics lists the topics with a registered pipeline, sorted.
func RegisteredTopics() []domain.Topic {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]domain.Topic, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RegisterAll installs every built-in pipeline. Called once at startup;
// safe to call again.
func RegisterAll() {
	Register(NewCryptoPipeline(domain.TopicCryptoDaily))
	Register(NewCryptoPipeline(domain.TopicCryptoIntraday))
	Register(NewMacroPipeline())
	Register(NewRatesPipeline())
	Register(NewElectionsPipeline())
	Register(NewCommoditiesPipeline())
	Register(NewSportsPipeline())
	Register(NewFinancePipeline())
	Register(NewUniversalPipeline(domain.TopicGeopolitics))
	Register(NewUniversalPipeline(domain.TopicEntertainment))
	Register(NewUniversalPipeline(domain.TopicClimate))
	Register(NewUniversalPipeline(domain.TopicUniversal))
}

// dedupeCandidates drops repeat market IDs while keeping first-seen order.
func dedupeCandidates(in []MarketWithSignals) []MarketWithSignals {
	seen := make(map[int64]struct{}, len(in))
	out := in[:0]
	for _, m := range in {
		if _, dup := seen[m.Market.ID]; dup {
			continue
		}
		seen[m.Market.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

// fetchMarkets is the shared fetch body: list eligible rows for the topic,
// run the extractor, and keep rows the keep predicate accepts.
func fetchMarkets(
	ctx context.Context,
	repo persistence.MarketRepository,
	opts FetchOptions,
	topic domain.Topic,
	keywords []string,
	extract func(m domain.Market) (any, bool),
) ([]MarketWithSignals, error) {
	rows, err := repo.ListEligibleMarkets(ctx, persistence.MarketQuery{
		Venue:         opts.Venue,
		LookbackHours: opts.LookbackHours,
		Limit:         opts.Limit,
		TitleKeywords: keywords,
		Topic:         topic,
		OrderBy:       "close_time",
	})
	if err != nil {
		return nil, err
	}
	out := make([]MarketWithSignals, 0, len(rows))
	for _, m := range rows {
		sig, keep := extract(m)
		if !keep {
			continue
		}
		out = append(out, MarketWithSignals{Market: m, Signals: sig})
	}
	return out, nil
}

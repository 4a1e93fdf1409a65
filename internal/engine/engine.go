// Package engine drives matching runs: fetch both venues in parallel,
// block, gate, score, apply auto rules, group brackets, and upsert the
// surviving pairs as link suggestions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pmxlab/crosslink/internal/config"
	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/errkind"
	"github.com/pmxlab/crosslink/internal/metrics"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/pipeline"
)

// ErrUnsupportedTopic is returned when no pipeline is registered for the
// requested topic. Multi-topic runs skip past it.
var ErrUnsupportedTopic = errors.New("unsupported_topic")

// RunOptions names one engine invocation.
type RunOptions struct {
	LeftVenue  domain.Venue
	RightVenue domain.Venue
	Topic      domain.Topic
}

// Engine owns the matching hot path. Construction wires the repositories;
// pipelines come from the process-wide registry.
type Engine struct {
	markets persistence.MarketRepository
	links   persistence.MarketLinkRepository
	writer  *persistence.ChunkedLinkWriter
	cfg     *config.Config
}

func New(markets persistence.MarketRepository, links persistence.MarketLinkRepository, cfg *config.Config) *Engine {
	return &Engine{
		markets: markets,
		links:   links,
		writer:  persistence.NewChunkedLinkWriter(links, cfg.Write.BatchSize, cfg.Write.MinBatchSize, cfg.Write.MaxAttempts),
		cfg:     cfg,
	}
}

// Run executes one (left, right, topic) matching pass.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	if opts.LeftVenue == opts.RightVenue {
		return nil, fmt.Errorf("left and right venue are both %s", opts.LeftVenue)
	}
	pipe, ok := pipeline.Get(opts.Topic)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTopic, opts.Topic)
	}

	runID := uuid.NewString()[:8]
	summary := newRunSummary(runID, string(opts.Topic), string(opts.LeftVenue), string(opts.RightVenue), pipe.AlgoVersion())
	started := time.Now()
	defer func() {
		summary.Duration = time.Since(started)
		metrics.RunDuration.WithLabelValues(string(opts.Topic)).Observe(summary.Duration.Seconds())
	}()

	log.Info().
		Str("run_id", runID).
		Str("topic", string(opts.Topic)).
		Str("left", string(opts.LeftVenue)).
		Str("right", string(opts.RightVenue)).
		Msg("engine run starting")

	left, right, err := e.fetchBoth(ctx, pipe, opts, summary)
	if err != nil {
		return summary, err
	}
	summary.LeftMarkets = len(left)
	summary.RightMarkets = len(right)
	metrics.MarketsFetched.WithLabelValues(string(opts.LeftVenue), string(opts.Topic)).Add(float64(len(left)))
	metrics.MarketsFetched.WithLabelValues(string(opts.RightVenue), string(opts.Topic)).Add(float64(len(right)))

	if len(left) == 0 || len(right) == 0 {
		log.Info().Str("run_id", runID).Msg("one side empty, nothing to match")
		return summary, nil
	}

	index := pipe.BuildIndex(right)
	pairs := e.scoreAll(ctx, pipe, left, index, summary)

	if e.cfg.Match.BracketGrouping &&
		(opts.Topic == domain.TopicCryptoDaily || opts.Topic == domain.TopicCryptoIntraday) {
		before := len(pairs)
		pairs = pipeline.GroupBrackets(pairs)
		summary.BracketSuppressed = before - len(pairs)
	}

	upserts := e.classify(pipe, pairs, summary)
	written, err := e.writer.WriteLinks(ctx, upserts)
	summary.LinksWritten = written
	if err != nil {
		summary.ErrorKinds[string(errkind.Classify(err))]++
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("link write incomplete: %v", err))
		log.Error().Err(err).Str("run_id", runID).Msg("link write incomplete")
	}
	for _, u := range upserts {
		metrics.LinksUpserted.WithLabelValues(string(u.Topic), string(u.Status)).Inc()
	}

	log.Info().
		Str("run_id", runID).
		Int("left", summary.LeftMarkets).
		Int("right", summary.RightMarkets).
		Int("written", summary.LinksWritten).
		Int("confirmed", summary.AutoConfirmed).
		Int("rejected", summary.AutoRejected).
		Dur("took", time.Since(started)).
		Msg("engine run finished")
	return summary, nil
}

// RunAll iterates every matchable topic. Unsupported topics and per-topic
// failures are recorded and skipped; the pass continues.
func (e *Engine) RunAll(ctx context.Context, left, right domain.Venue) ([]*RunSummary, error) {
	var out []*RunSummary
	for _, topic := range domain.MatchableTopics() {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		summary, err := e.Run(ctx, RunOptions{LeftVenue: left, RightVenue: right, Topic: topic})
		if err != nil {
			if errors.Is(err, ErrUnsupportedTopic) {
				log.Warn().Str("topic", string(topic)).Msg("no pipeline registered, skipping")
				continue
			}
			log.Error().Err(err).Str("topic", string(topic)).Msg("topic run failed, continuing")
			if summary != nil {
				out = append(out, summary)
			}
			continue
		}
		out = append(out, summary)
	}
	return out, nil
}

// fetchBoth loads both venues in parallel. A venue that fails after
// retries yields a warning and an empty side; the run continues so the
// other venue's failure modes stay independent.
func (e *Engine) fetchBoth(ctx context.Context, pipe pipeline.Pipeline, opts RunOptions, summary *RunSummary) (left, right []pipeline.MarketWithSignals, err error) {
	fopts := pipeline.FetchOptions{
		LookbackHours: e.cfg.Match.LookbackHours,
		Limit:         e.cfg.Match.FetchLimit,
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	g.Go(func() error {
		o := fopts
		o.Venue = opts.LeftVenue
		ms, ferr := pipe.Fetch(gctx, e.markets, o)
		if ferr != nil {
			mu.Lock()
			summary.ErrorKinds[string(errkind.Classify(ferr))]++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("left fetch (%s): %v", opts.LeftVenue, ferr))
			mu.Unlock()
			metrics.FetchErrors.WithLabelValues(string(opts.LeftVenue), string(errkind.Classify(ferr))).Inc()
			return nil
		}
		left = ms
		return nil
	})
	g.Go(func() error {
		o := fopts
		o.Venue = opts.RightVenue
		ms, ferr := pipe.Fetch(gctx, e.markets, o)
		if ferr != nil {
			mu.Lock()
			summary.ErrorKinds[string(errkind.Classify(ferr))]++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("right fetch (%s): %v", opts.RightVenue, ferr))
			mu.Unlock()
			metrics.FetchErrors.WithLabelValues(string(opts.RightVenue), string(errkind.Classify(ferr))).Inc()
			return nil
		}
		right = ms
		return nil
	})
	if gerr := g.Wait(); gerr != nil {
		return nil, nil, gerr
	}
	return left, right, ctx.Err()
}

// scoreAll partitions left markets across workers and scores each against
// the shared read-only index. Cancellation lets a worker finish its
// current left before exiting.
func (e *Engine) scoreAll(ctx context.Context, pipe pipeline.Pipeline, left []pipeline.MarketWithSignals, index pipeline.Index, summary *RunSummary) []pipeline.ScoredPair {
	workers := e.cfg.Match.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(left) {
		workers = len(left)
	}

	floor := e.cfg.Match.MinScoreByTopic[pipe.Topic()]
	maxPerLeft := e.cfg.Match.MaxCandidatesPerLeft

	results := make([]leftResult, len(left))
	var wg sync.WaitGroup
	work := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i] = scoreLeft(pipe, left[i], index, floor, maxPerLeft)
			}
		}()
	}
feed:
	for i := range left {
		select {
		case <-ctx.Done():
			break feed
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	var pairs []pipeline.ScoredPair
	for _, r := range results {
		summary.CandidatePairs += r.candidates
		summary.GatePassed += r.gatePassed
		summary.Scored += r.scored
		summary.BelowFloor += r.belowFloor
		for reason, n := range r.gateFails {
			summary.GateFailed += n
			summary.GateFailReasons[reason] += n
			metrics.GateFailures.WithLabelValues(string(pipe.Topic()), reason).Add(float64(n))
		}
		pairs = append(pairs, r.pairs...)
	}
	metrics.PairsGated.WithLabelValues(string(pipe.Topic()), "passed").Add(float64(summary.GatePassed))
	metrics.PairsGated.WithLabelValues(string(pipe.Topic()), "failed").Add(float64(summary.GateFailed))
	return pairs
}

// leftResult accumulates per-left-market scoring counts.
type leftResult struct {
	pairs      []pipeline.ScoredPair
	candidates int
	gatePassed int
	gateFails  map[string]int
	scored     int
	belowFloor int
}

// scoreLeft evaluates one left market: candidates, gates, scores, and the
// per-left top-K cap.
func scoreLeft(pipe pipeline.Pipeline, left pipeline.MarketWithSignals, index pipeline.Index, floor float64, maxPerLeft int) leftResult {
	out := leftResult{gateFails: map[string]int{}}

	cands := pipe.FindCandidates(left, index)
	out.candidates = len(cands)

	var kept []pipeline.ScoredPair
	for _, right := range cands {
		if left.Market.ID == right.Market.ID || left.Market.Venue == right.Market.Venue {
			continue
		}
		gate := pipe.CheckHardGates(left, right)
		if !gate.Passed {
			out.gateFails[gate.FailReason]++
			continue
		}
		out.gatePassed++
		score := pipe.Score(left, right)
		if score == nil {
			continue
		}
		out.scored++
		// Rejectable pairs stay in even under the floor so the reject is
		// recorded; plain low scores are dropped.
		reject := pipe.SupportsAutoReject() && pipe.ShouldAutoReject(left, right, score).ShouldReject
		if score.Score < floor && !reject {
			out.belowFloor++
			continue
		}
		kept = append(kept, pipeline.ScoredPair{Left: left, Right: right, Result: score})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Result.Score > kept[j].Result.Score
	})
	if len(kept) > maxPerLeft {
		kept = kept[:maxPerLeft]
	}
	out.pairs = kept
	return out
}

// classify applies the auto rules to every surviving pair and builds the
// link upserts.
func (e *Engine) classify(pipe pipeline.Pipeline, pairs []pipeline.ScoredPair, summary *RunSummary) []persistence.LinkUpsert {
	topic := pipe.Topic()
	confirmOn := e.cfg.Match.AutoConfirmEnabled[topic] && pipe.SupportsAutoConfirm()
	rejectOn := e.cfg.Match.AutoRejectEnabled[topic] && pipe.SupportsAutoReject()

	seen := make(map[[2]int64]struct{}, len(pairs))
	out := make([]persistence.LinkUpsert, 0, len(pairs))
	for _, p := range pairs {
		key := [2]int64{p.Left.Market.ID, p.Right.Market.ID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		status := domain.LinkSuggested
		reason := p.Result.Reason

		if rejectOn {
			if rej := pipe.ShouldAutoReject(p.Left, p.Right, p.Result); rej.ShouldReject {
				status = domain.LinkRejected
				reason = fmt.Sprintf("%s auto_reject=%s (%s)", reason, rej.Rule, rej.Reason)
				summary.AutoRejected++
				summary.AutoRules[rej.Rule]++
				metrics.AutoRules.WithLabelValues(string(topic), rej.Rule).Inc()
			}
		}
		if status == domain.LinkSuggested && confirmOn {
			if conf := pipe.ShouldAutoConfirm(p.Left, p.Right, p.Result); conf.ShouldConfirm {
				status = domain.LinkConfirmed
				reason = fmt.Sprintf("%s auto_confirm=%s", reason, conf.Rule)
				summary.AutoConfirmed++
				summary.AutoRules[conf.Rule]++
				metrics.AutoRules.WithLabelValues(string(topic), conf.Rule).Inc()
			}
		}
		if status == domain.LinkSuggested {
			summary.Suggested++
		}

		out = append(out, persistence.LinkUpsert{
			LeftMarketID:  p.Left.Market.ID,
			RightMarketID: p.Right.Market.ID,
			LeftVenue:     p.Left.Market.Venue,
			RightVenue:    p.Right.Market.Venue,
			Topic:         topic,
			Score:         p.Result.Score,
			Reason:        reason,
			AlgoVersion:   pipe.AlgoVersion(),
			Status:        status,
		})
	}
	return out
}

// Explain re-scores one pair and returns the gate and component breakdown.
func (e *Engine) Explain(ctx context.Context, opts RunOptions, leftID, rightID int64) (string, error) {
	pipe, ok := pipeline.Get(opts.Topic)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedTopic, opts.Topic)
	}
	left, right, err := e.fetchBoth(ctx, pipe, opts, newRunSummary("explain", string(opts.Topic), string(opts.LeftVenue), string(opts.RightVenue), pipe.AlgoVersion()))
	if err != nil {
		return "", err
	}
	var l, r *pipeline.MarketWithSignals
	for i := range left {
		if left[i].Market.ID == leftID {
			l = &left[i]
		}
	}
	for i := range right {
		if right[i].Market.ID == rightID {
			r = &right[i]
		}
	}
	if l == nil || r == nil {
		return "", fmt.Errorf("pair %d:%d not found among eligible %s markets", leftID, rightID, opts.Topic)
	}
	gate := pipe.CheckHardGates(*l, *r)
	if !gate.Passed {
		return fmt.Sprintf("gate failed: %s", gate.FailReason), nil
	}
	score := pipe.Score(*l, *r)
	if score == nil {
		return "gate failed during scoring", nil
	}
	return fmt.Sprintf("score=%.4f tier=%s\n%s", score.Score, score.Tier, score.Reason), nil
}

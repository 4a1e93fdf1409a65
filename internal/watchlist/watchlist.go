// Package watchlist projects the link set to a ranked per-venue list of
// markets whose quotes the poller must keep fresh.
package watchlist

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pmxlab/crosslink/internal/config"
	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/metrics"
	"github.com/pmxlab/crosslink/internal/persistence"
)

// Syncer recomputes the watchlist from the current link set.
type Syncer struct {
	links persistence.MarketLinkRepository
	repo  persistence.WatchlistRepository
	redis *redis.Client // nil when the mirror is disabled
	cfg   *config.Config
}

func NewSyncer(links persistence.MarketLinkRepository, repo persistence.WatchlistRepository, rdb *redis.Client, cfg *config.Config) *Syncer {
	return &Syncer{links: links, repo: repo, redis: rdb, cfg: cfg}
}

// SyncResult summarizes one watchlist recomputation.
type SyncResult struct {
	Items     int                  `json:"items"`
	Confirmed int                  `json:"confirmed"`
	Safe      int                  `json:"candidate_safe"`
	Top       int                  `json:"top_suggested"`
	Pruned    int                  `json:"pruned"`
	Mirrored  int                  `json:"mirrored"`
	PerVenue  map[domain.Venue]int `json:"per_venue"`
}

// Sync builds the watchlist: priority 100 for confirmed links, 80 for
// suggested links above their topic's safe-score floor, 50 for the top-N
// suggestions by score. Caps keep highest priority, ties broken by score.
func (s *Syncer) Sync(ctx context.Context) (*SyncResult, error) {
	started := time.Now().UTC()
	res := &SyncResult{PerVenue: map[domain.Venue]int{}}

	confirmed, err := s.links.ListSuggestions(ctx, persistence.LinkQuery{
		Status: domain.LinkConfirmed,
		Limit:  s.cfg.Watchlist.MaxTotal,
	})
	if err != nil {
		return nil, fmt.Errorf("list confirmed links: %w", err)
	}
	suggested, err := s.links.ListSuggestions(ctx, persistence.LinkQuery{
		Status: domain.LinkSuggested,
		Limit:  s.cfg.Watchlist.MaxTotal * 4,
	})
	if err != nil {
		return nil, fmt.Errorf("list suggested links: %w", err)
	}

	type entry struct {
		item  domain.WatchlistItem
		score float64
	}
	best := map[string]entry{}
	add := func(venue domain.Venue, marketID int64, priority int, score float64, reason string) {
		key := string(venue) + "/" + strconv.FormatInt(marketID, 10)
		cur, ok := best[key]
		if ok && (cur.item.Priority > priority ||
			(cur.item.Priority == priority && cur.score >= score)) {
			return
		}
		best[key] = entry{
			item: domain.WatchlistItem{
				Venue:    venue,
				MarketID: marketID,
				Priority: priority,
				Reason:   reason,
				Score:    score,
			},
			score: score,
		}
	}

	for _, l := range confirmed {
		reason := fmt.Sprintf("confirmed link %d (%s)", l.ID, l.Topic)
		add(l.LeftVenue, l.LeftMarketID, domain.PriorityConfirmed, l.Score, reason)
		add(l.RightVenue, l.RightMarketID, domain.PriorityConfirmed, l.Score, reason)
		res.Confirmed++
	}

	for _, l := range suggested {
		floor, ok := s.cfg.Watchlist.SafeScoreByTopic[l.Topic]
		if !ok {
			floor = 0.85
		}
		if l.Score >= floor {
			reason := fmt.Sprintf("candidate-safe link %d (%s score=%.2f)", l.ID, l.Topic, l.Score)
			add(l.LeftVenue, l.LeftMarketID, domain.PriorityCandidateSafe, l.Score, reason)
			add(l.RightVenue, l.RightMarketID, domain.PriorityCandidateSafe, l.Score, reason)
			res.Safe++
		}
	}

	top := suggested
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > s.cfg.Watchlist.MaxTopSuggested {
		top = top[:s.cfg.Watchlist.MaxTopSuggested]
	}
	for _, l := range top {
		reason := fmt.Sprintf("top suggestion %d (%s score=%.2f)", l.ID, l.Topic, l.Score)
		add(l.LeftVenue, l.LeftMarketID, domain.PriorityTopSuggested, l.Score, reason)
		add(l.RightVenue, l.RightMarketID, domain.PriorityTopSuggested, l.Score, reason)
		res.Top++
	}

	items := make([]domain.WatchlistItem, 0, len(best))
	for _, e := range best {
		items = append(items, e.item)
	}
	items = applyCaps(items, s.cfg.Watchlist.MaxPerVenue, s.cfg.Watchlist.MaxTotal)

	if _, err := s.repo.UpsertMany(ctx, items); err != nil {
		return nil, fmt.Errorf("upsert watchlist: %w", err)
	}
	res.Items = len(items)
	for _, it := range items {
		res.PerVenue[it.Venue]++
	}

	pruned, err := s.repo.PruneBefore(ctx, started)
	if err != nil {
		log.Warn().Err(err).Msg("watchlist prune failed")
	} else {
		res.Pruned = pruned
	}

	res.Mirrored = s.mirror(ctx, items)
	s.publishMetrics(items)

	log.Info().
		Int("items", res.Items).
		Int("confirmed_links", res.Confirmed).
		Int("candidate_safe", res.Safe).
		Int("top_suggested", res.Top).
		Int("pruned", res.Pruned).
		Msg("watchlist synced")
	return res, nil
}

// applyCaps enforces per-venue and total limits, keeping highest priority
// and breaking ties by score.
func applyCaps(items []domain.WatchlistItem, maxPerVenue, maxTotal int) []domain.WatchlistItem {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		return items[i].Score > items[j].Score
	})

	perVenue := map[domain.Venue]int{}
	out := make([]domain.WatchlistItem, 0, len(items))
	for _, it := range items {
		if len(out) >= maxTotal {
			break
		}
		if perVenue[it.Venue] >= maxPerVenue {
			continue
		}
		perVenue[it.Venue]++
		out = append(out, it)
	}
	return out
}

// mirror publishes the final set to Redis sorted sets so the quote poller
// reads priorities without touching Postgres. Failures are warnings only.
func (s *Syncer) mirror(ctx context.Context, items []domain.WatchlistItem) int {
	if s.redis == nil {
		return 0
	}
	byVenue := map[domain.Venue][]redis.Z{}
	for _, it := range items {
		byVenue[it.Venue] = append(byVenue[it.Venue], redis.Z{
			Score:  float64(it.Priority),
			Member: strconv.FormatInt(it.MarketID, 10),
		})
	}
	mirrored := 0
	for venue, zs := range byVenue {
		key := "crosslink:watchlist:" + string(venue)
		pipe := s.redis.TxPipeline()
		pipe.Del(ctx, key)
		pipe.ZAdd(ctx, key, zs...)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Str("venue", string(venue)).Msg("watchlist redis mirror failed")
			continue
		}
		mirrored += len(zs)
	}
	return mirrored
}

func (s *Syncer) publishMetrics(items []domain.WatchlistItem) {
	counts := map[domain.Venue]map[int]int{}
	for _, it := range items {
		if counts[it.Venue] == nil {
			counts[it.Venue] = map[int]int{}
		}
		counts[it.Venue][it.Priority]++
	}
	for venue, byPriority := range counts {
		for priority, n := range byPriority {
			metrics.WatchlistSize.WithLabelValues(string(venue), strconv.Itoa(priority)).Set(float64(n))
		}
	}
}

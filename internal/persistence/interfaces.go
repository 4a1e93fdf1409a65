// Package persistence defines the repository interfaces the engine and its
// collaborators consume. Implementations live in the postgres subpackage;
// tests use hand mocks.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/pmxlab/crosslink/internal/domain"
)

// ErrNoRows is returned when a lookup finds nothing.
var ErrNoRows = errors.New("persistence: no rows")

// MarketQuery narrows an eligible-market listing.
type MarketQuery struct {
	Venue          domain.Venue
	LookbackHours  int
	Limit          int
	TitleKeywords  []string // OR-ed ILIKE filters; empty = no filter
	TickerPatterns []string // OR-ed LIKE filters over external_id
	Topic          domain.Topic
	OrderBy        string // "close_time" or "id"
}

// MarketRepository is the engine's only view of stored markets.
type MarketRepository interface {
	ListEligibleMarkets(ctx context.Context, q MarketQuery) ([]domain.Market, error)
	UpsertMarkets(ctx context.Context, markets []domain.Market) (int, error)
	GetStatusCounts(ctx context.Context, venue domain.Venue) (map[domain.MarketStatus]int, error)
	CountBySeriesTicker(ctx context.Context, venue domain.Venue, limit int) (map[string]int, error)
}

// LinkUpsert is one engine-produced suggestion headed for the link store.
type LinkUpsert struct {
	LeftMarketID  int64
	RightMarketID int64
	LeftVenue     domain.Venue
	RightVenue    domain.Venue
	Topic         domain.Topic
	Score         float64
	Reason        string
	AlgoVersion   string
	Status        domain.LinkStatus
}

// LinkQuery narrows a suggestion listing.
type LinkQuery struct {
	MinScore float64
	Status   domain.LinkStatus // empty = any
	Topic    domain.Topic      // empty = any
	Limit    int
	Offset   int
}

// CleanupQuery selects stale suggestions to prune.
type CleanupQuery struct {
	OlderThanDays int
	Status        domain.LinkStatus
	AlgoVersion   string // empty = any
	DryRun        bool
}

// MarketLinkRepository stores cross-venue link suggestions. Upsert must
// never demote a terminal (confirmed/rejected) status back to suggested.
type MarketLinkRepository interface {
	UpsertLinks(ctx context.Context, links []LinkUpsert) (int, error)
	ListSuggestions(ctx context.Context, q LinkQuery) ([]domain.MarketLink, error)
	GetByID(ctx context.Context, id int64) (*domain.MarketLink, error)
	Confirm(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	CleanupSuggestions(ctx context.Context, q CleanupQuery) (int, error)
	CountByStatus(ctx context.Context) (map[domain.LinkStatus]int, error)
}

// WatchlistRepository stores the derived quote-polling priorities.
type WatchlistRepository interface {
	UpsertMany(ctx context.Context, items []domain.WatchlistItem) (int, error)
	List(ctx context.Context, venue domain.Venue, limit, offset int) ([]domain.WatchlistItem, error)
	GetStats(ctx context.Context) (map[domain.Venue]map[int]int, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// IngestionRun records one catalog-paging pass over a venue.
type IngestionRun struct {
	ID          string         `json:"id" db:"id"`
	Venue       domain.Venue   `json:"venue" db:"venue"`
	StartedAt   time.Time      `json:"started_at" db:"started_at"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty" db:"finished_at"`
	Cursor      string         `json:"cursor" db:"cursor"`
	Pages       int            `json:"pages" db:"pages"`
	Markets     int            `json:"markets" db:"markets"`
	ErrorCounts map[string]int `json:"error_counts,omitempty" db:"-"`
	LastError   string         `json:"last_error,omitempty" db:"last_error"`
	Status      string         `json:"status" db:"status"` // running|ok|partial|failed
}

// IngestionRepository tracks ingestion runs and their cursor watermarks.
type IngestionRepository interface {
	StartRun(ctx context.Context, run *IngestionRun) error
	UpdateCursor(ctx context.Context, runID, cursor string, pages, markets int) error
	FinishRun(ctx context.Context, run *IngestionRun) error
	LastRun(ctx context.Context, venue domain.Venue) (*IngestionRun, error)
}

package domain

import "time"

// LinkStatus is the review state of a cross-venue market link.
type LinkStatus string

const (
	LinkSuggested LinkStatus = "suggested"
	LinkConfirmed LinkStatus = "confirmed"
	LinkRejected  LinkStatus = "rejected"
)

// Terminal reports whether a status was set by a human (or an auto rule)
// and must never be demoted back to suggested by a later run.
func (s LinkStatus) Terminal() bool {
	return s == LinkConfirmed || s == LinkRejected
}

// MarketLink is one cross-venue correspondence suggestion. The pair
// (LeftMarketID, RightMarketID) is unique in the link store.
type MarketLink struct {
	ID            int64      `json:"id" db:"id"`
	LeftMarketID  int64      `json:"left_market_id" db:"left_market_id"`
	RightMarketID int64      `json:"right_market_id" db:"right_market_id"`
	LeftVenue     Venue      `json:"left_venue" db:"left_venue"`
	RightVenue    Venue      `json:"right_venue" db:"right_venue"`
	Topic         Topic      `json:"topic" db:"topic"`
	Score         float64    `json:"score" db:"score"`
	Reason        string     `json:"reason" db:"reason"`
	AlgoVersion   string     `json:"algo_version" db:"algo_version"`
	Status        LinkStatus `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Watchlist priorities. Higher is polled more aggressively.
const (
	PriorityConfirmed     = 100
	PriorityCandidateSafe = 80
	PriorityTopSuggested  = 50
)

// WatchlistItem marks one market whose quotes the poller must keep fresh.
// Keyed by (Venue, MarketID); fully recomputed on every sync.
type WatchlistItem struct {
	Venue     Venue     `json:"venue" db:"venue"`
	MarketID  int64     `json:"market_id" db:"market_id"`
	Priority  int       `json:"priority" db:"priority"`
	Reason    string    `json:"reason" db:"reason"`
	Score     float64   `json:"score" db:"score"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

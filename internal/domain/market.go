package domain

import (
	"fmt"
	"time"
)

// Venue identifies an external prediction-market provider.
type Venue string

const (
	VenueKalshi     Venue = "kalshi"
	VenuePolymarket Venue = "polymarket"
)

// ParseVenue validates a venue string from CLI flags or config.
func ParseVenue(s string) (Venue, error) {
	switch Venue(s) {
	case VenueKalshi, VenuePolymarket:
		return Venue(s), nil
	}
	return "", fmt.Errorf("unknown venue: %q", s)
}

// AllVenues lists every venue the ingester knows how to page.
func AllVenues() []Venue {
	return []Venue{VenueKalshi, VenuePolymarket}
}

// MarketStatus is the lifecycle state of a market on its venue.
type MarketStatus string

const (
	StatusActive   MarketStatus = "active"
	StatusClosed   MarketStatus = "closed"
	StatusResolved MarketStatus = "resolved"
	StatusArchived MarketStatus = "archived"
)

// OutcomeSide tags an outcome as the yes leg, the no leg, or neither.
type OutcomeSide string

const (
	SideYes   OutcomeSide = "yes"
	SideNo    OutcomeSide = "no"
	SideOther OutcomeSide = "other"
)

// Outcome is one tradable answer to a market.
type Outcome struct {
	Name string      `json:"name" db:"name"`
	Side OutcomeSide `json:"side" db:"side"`
}

// Market is a normalized venue market as stored by ingestion. The matching
// engine treats it as immutable; only DerivedTopic is set after normalization
// (by the classifier, before the row is written).
type Market struct {
	ID           int64             `json:"id" db:"id"`
	Venue        Venue             `json:"venue" db:"venue"`
	ExternalID   string            `json:"external_id" db:"external_id"`
	Title        string            `json:"title" db:"title"`
	Category     *string           `json:"category,omitempty" db:"category"`
	Status       MarketStatus      `json:"status" db:"status"`
	CloseTime    *time.Time        `json:"close_time,omitempty" db:"close_time"`
	DerivedTopic *Topic            `json:"derived_topic,omitempty" db:"derived_topic"`
	Metadata     map[string]string `json:"metadata,omitempty" db:"metadata"`
	Tags         []string          `json:"tags,omitempty" db:"tags"`
	Outcomes     []Outcome         `json:"outcomes,omitempty" db:"outcomes"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// Eligible reports whether the market can participate in a matching run:
// active or closed, and not past the lookback window.
func (m *Market) Eligible(now time.Time, lookback time.Duration) bool {
	if m.Status != StatusActive && m.Status != StatusClosed {
		return false
	}
	if m.CloseTime != nil && m.CloseTime.Before(now.Add(-lookback)) {
		return false
	}
	return true
}

// Meta returns a metadata value or "" when absent. Venue metadata is
// shape-free; extractors project what they need through this accessor.
func (m *Market) Meta(key string) string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata[key]
}

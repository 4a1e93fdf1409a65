package venue

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pmxlab/crosslink/internal/domain"
)

// KalshiClient pages the Kalshi trade API market catalog.
type KalshiClient struct {
	tr *transport
}

func NewKalshiClient(baseURL string, ratePerSec float64, burst int, timeout time.Duration, maxAttempts int) *KalshiClient {
	return &KalshiClient{
		tr: newTransport("kalshi", baseURL, ratePerSec, burst, timeout, maxAttempts),
	}
}

func (c *KalshiClient) Venue() domain.Venue { return domain.VenueKalshi }

// kalshiMarket is the /markets response shape, reduced to what
// normalization needs.
type kalshiMarket struct {
	Ticker             string `json:"ticker"`
	EventTicker        string `json:"event_ticker"`
	SeriesTicker       string `json:"series_ticker"`
	Title              string `json:"title"`
	Subtitle           string `json:"subtitle"`
	Category           string `json:"category"`
	Status             string `json:"status"`
	CloseTime          string `json:"close_time"`
	ExpectedExpiration string `json:"expected_expiration_time"`
	MutuallyExclusive  bool   `json:"mutually_exclusive"`
	YesSubTitle        string `json:"yes_sub_title"`
	NoSubTitle         string `json:"no_sub_title"`
}

type kalshiMarketsResponse struct {
	Markets []kalshiMarket `json:"markets"`
	Cursor  string         `json:"cursor"`
}

func (c *KalshiClient) FetchMarkets(ctx context.Context, req PageRequest) (Page, error) {
	query := map[string]string{
		"limit":  strconv.Itoa(req.Limit),
		"status": "open,closed",
	}
	if req.Cursor != "" {
		query["cursor"] = req.Cursor
	}

	var resp kalshiMarketsResponse
	if err := c.tr.getJSON(ctx, "/markets", query, &resp); err != nil {
		return Page{}, err
	}

	page := Page{NextCursor: resp.Cursor}
	for _, km := range resp.Markets {
		page.Markets = append(page.Markets, normalizeKalshi(km))
	}
	return page, nil
}

// normalizeKalshi maps a Kalshi market onto the common schema. The series
// ticker and MVE flag ride along in metadata for the classifier and the
// sports extractor.
func normalizeKalshi(km kalshiMarket) domain.Market {
	m := domain.Market{
		Venue:      domain.VenueKalshi,
		ExternalID: km.Ticker,
		Title:      strings.TrimSpace(km.Title),
		Status:     kalshiStatus(km.Status),
		Metadata: map[string]string{
			"ticker":        km.Ticker,
			"event_ticker":  km.EventTicker,
			"series_ticker": km.SeriesTicker,
		},
		Outcomes: []domain.Outcome{
			{Name: "Yes", Side: domain.SideYes},
			{Name: "No", Side: domain.SideNo},
		},
	}
	if km.Subtitle != "" {
		m.Title = strings.TrimSpace(km.Title + " " + km.Subtitle)
	}
	if km.Category != "" {
		cat := km.Category
		m.Category = &cat
	}
	if km.MutuallyExclusive {
		m.Metadata["mutually_exclusive"] = "true"
	}
	if t := parseKalshiTime(km.CloseTime); t != nil {
		m.CloseTime = t
	} else if t := parseKalshiTime(km.ExpectedExpiration); t != nil {
		m.CloseTime = t
	}
	return m
}

func kalshiStatus(s string) domain.MarketStatus {
	switch strings.ToLower(s) {
	case "open", "active":
		return domain.StatusActive
	case "closed":
		return domain.StatusClosed
	case "settled", "finalized", "determined":
		return domain.StatusResolved
	}
	return domain.StatusArchived
}

func parseKalshiTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	u := t.UTC()
	return &u
}

package venue

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pmxlab/crosslink/internal/domain"
)

// PolymarketClient pages the Gamma API market catalog. Gamma pages by
// offset; the opaque cursor carries the next offset as a decimal string.
type PolymarketClient struct {
	tr *transport
}

func NewPolymarketClient(baseURL string, ratePerSec float64, burst int, timeout time.Duration, maxAttempts int) *PolymarketClient {
	return &PolymarketClient{
		tr: newTransport("polymarket", baseURL, ratePerSec, burst, timeout, maxAttempts),
	}
}

func (c *PolymarketClient) Venue() domain.Venue { return domain.VenuePolymarket }

// gammaMarket is the Gamma /markets shape. Outcomes arrive as a
// JSON-encoded string array inside a string field.
type gammaMarket struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Closed   bool   `json:"closed"`
	Archived bool   `json:"archived"`
	Active   bool   `json:"active"`
	EndDate  string `json:"endDate"`
	Outcomes string `json:"outcomes"`
	RawTags  []struct {
		Label string `json:"label"`
	} `json:"tags"`
	ConditionID string `json:"conditionId"`
}

func (c *PolymarketClient) FetchMarkets(ctx context.Context, req PageRequest) (Page, error) {
	offset := 0
	if req.Cursor != "" {
		if v, err := strconv.Atoi(req.Cursor); err == nil {
			offset = v
		}
	}
	query := map[string]string{
		"limit":  strconv.Itoa(req.Limit),
		"offset": strconv.Itoa(offset),
		"order":  "id",
	}

	var resp []gammaMarket
	if err := c.tr.getJSON(ctx, "/markets", query, &resp); err != nil {
		return Page{}, err
	}

	page := Page{}
	for _, gm := range resp {
		page.Markets = append(page.Markets, normalizeGamma(gm))
	}
	if len(resp) == req.Limit {
		page.NextCursor = strconv.Itoa(offset + len(resp))
	}
	return page, nil
}

// normalizeGamma maps a Gamma market onto the common schema.
func normalizeGamma(gm gammaMarket) domain.Market {
	m := domain.Market{
		Venue:      domain.VenuePolymarket,
		ExternalID: gm.ID,
		Title:      strings.TrimSpace(gm.Question),
		Status:     gammaStatus(gm),
		Metadata: map[string]string{
			"slug":         gm.Slug,
			"condition_id": gm.ConditionID,
		},
	}
	if gm.Category != "" {
		cat := gm.Category
		m.Category = &cat
	}
	for _, t := range gm.RawTags {
		if t.Label != "" {
			m.Tags = append(m.Tags, t.Label)
		}
	}
	if gm.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, gm.EndDate); err == nil {
			u := t.UTC()
			m.CloseTime = &u
		}
	}

	// Outcomes field is a JSON array encoded as a string, e.g. `["Yes","No"]`.
	var names []string
	if err := json.Unmarshal([]byte(gm.Outcomes), &names); err == nil {
		for _, name := range names {
			side := domain.SideOther
			switch strings.ToLower(name) {
			case "yes":
				side = domain.SideYes
			case "no":
				side = domain.SideNo
			}
			m.Outcomes = append(m.Outcomes, domain.Outcome{Name: name, Side: side})
		}
	}
	return m
}

func gammaStatus(gm gammaMarket) domain.MarketStatus {
	switch {
	case gm.Archived:
		return domain.StatusArchived
	case gm.Closed:
		return domain.StatusClosed
	case gm.Active:
		return domain.StatusActive
	}
	return domain.StatusClosed
}

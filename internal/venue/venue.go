// Package venue implements the catalog clients for each external
// prediction-market provider, with rate limiting, circuit breaking, and
// bounded retry shared across venues.
package venue

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/errkind"
)

// PageRequest asks for one catalog page. An empty cursor starts paging;
// the venue's NextCursor feeds the next request.
type PageRequest struct {
	Limit  int
	Cursor string
}

// Page is one normalized catalog page.
type Page struct {
	Markets    []domain.Market
	NextCursor string // empty = end of pages
}

// Catalog fetches one venue's market catalog.
type Catalog interface {
	Venue() domain.Venue
	FetchMarkets(ctx context.Context, req PageRequest) (Page, error)
}

// transport wraps resty with the per-venue rate limiter, circuit breaker,
// and bounded retry policy every catalog client shares.
type transport struct {
	client      *resty.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	maxAttempts int
}

func newTransport(name, baseURL string, ratePerSec float64, burst int, timeout time.Duration, maxAttempts int) *transport {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "crosslink/1.0")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("venue", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &transport{
		client:      client,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSec), burst),
		breaker:     breaker,
		maxAttempts: maxAttempts,
	}
}

// getJSON runs a rate-limited, breaker-guarded GET with retry and backoff.
// 429 responses honor Retry-After; other retryable kinds back off
// exponentially with jitter.
func (t *transport) getJSON(ctx context.Context, path string, query map[string]string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := t.breaker.Execute(func() (any, error) {
			resp, rerr := t.client.R().
				SetContext(ctx).
				SetQueryParams(query).
				SetResult(out).
				Get(path)
			if rerr != nil {
				return nil, rerr
			}
			if resp.IsError() {
				return nil, &errkind.StatusError{
					Status:     resp.StatusCode(),
					RetryAfter: resp.Header().Get("Retry-After"),
					Body:       truncate(string(resp.Body()), 200),
				}
			}
			return nil, nil
		})
		if err == nil {
			return nil
		}
		lastErr = err

		kind := errkind.Classify(err)
		if !errkind.Retryable(kind) || attempt == t.maxAttempts {
			break
		}
		wait := backoff(attempt, err)
		log.Warn().
			Err(err).
			Str("kind", string(kind)).
			Int("attempt", attempt).
			Dur("wait", wait).
			Str("path", path).
			Msg("venue fetch retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("get %s: %w", path, lastErr)
}

// backoff is exponential with jitter, overridden by Retry-After on 429.
func backoff(attempt int, err error) time.Duration {
	if statusErr, ok := err.(*errkind.StatusError); ok && statusErr.Status == 429 && statusErr.RetryAfter != "" {
		if secs, perr := strconv.Atoi(statusErr.RetryAfter); perr == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	base := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
	jitter := time.Duration(rand.Int63n(int64(base / 2)))
	return base + jitter
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// FetchAll pages a catalog to exhaustion, invoking onPage per page.
func FetchAll(ctx context.Context, cat Catalog, limit int, onPage func(Page) error) error {
	cursor := ""
	for {
		page, err := cat.FetchMarkets(ctx, PageRequest{Limit: limit, Cursor: cursor})
		if err != nil {
			return err
		}
		if err := onPage(page); err != nil {
			return err
		}
		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ChunkedLinkWriter batches link upserts and degrades under pressure:
// on a batch failure it halves the batch size down to a floor and retries;
// after sustained success it doubles back toward the configured size. A
// batch that still fails at the floor is skipped with a payload sample
// logged, and the write continues.
type ChunkedLinkWriter struct {
	repo        MarketLinkRepository
	batchSize   int
	minBatch    int
	maxBatch    int
	maxAttempts int
	successRun  int
}

func NewChunkedLinkWriter(repo MarketLinkRepository, batchSize, minBatch, maxAttempts int) *ChunkedLinkWriter {
	if batchSize < minBatch {
		batchSize = minBatch
	}
	return &ChunkedLinkWriter{
		repo:        repo,
		batchSize:   batchSize,
		minBatch:    minBatch,
		maxBatch:    batchSize,
		maxAttempts: maxAttempts,
	}
}

// WriteLinks upserts all links, returning the count written. The returned
// error reports skipped batches; partial progress is still counted.
func (w *ChunkedLinkWriter) WriteLinks(ctx context.Context, links []LinkUpsert) (int, error) {
	written := 0
	skipped := 0
	for start := 0; start < len(links); {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		end := start + w.batchSize
		if end > len(links) {
			end = len(links)
		}
		batch := links[start:end]

		n, err := w.writeBatch(ctx, batch)
		written += n
		if err != nil {
			skipped += len(batch) - n
			log.Error().
				Err(err).
				Int("batch", len(batch)).
				Interface("sample", batch[0]).
				Msg("link batch skipped after retries")
		} else {
			w.successRun++
			if w.successRun >= 3 && w.batchSize < w.maxBatch {
				w.batchSize *= 2
				if w.batchSize > w.maxBatch {
					w.batchSize = w.maxBatch
				}
				w.successRun = 0
			}
		}
		start = end
	}
	if skipped > 0 {
		return written, fmt.Errorf("%d links skipped after failed batches", skipped)
	}
	return written, nil
}

// writeBatch retries one batch, halving on each failure.
func (w *ChunkedLinkWriter) writeBatch(ctx context.Context, batch []LinkUpsert) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		n, err := w.repo.UpsertLinks(ctx, batch)
		if err == nil {
			return n, nil
		}
		lastErr = err
		w.successRun = 0
		if w.batchSize > w.minBatch {
			w.batchSize /= 2
			if w.batchSize < w.minBatch {
				w.batchSize = w.minBatch
			}
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("next_batch_size", w.batchSize).
				Msg("link batch failed, reducing batch size")
		}
		if len(batch) > w.batchSize {
			// Re-drive the oversized batch in smaller pieces.
			written := 0
			for start := 0; start < len(batch); start += w.batchSize {
				end := start + w.batchSize
				if end > len(batch) {
					end = len(batch)
				}
				n, serr := w.writeBatch(ctx, batch[start:end])
				written += n
				if serr != nil {
					return written, serr
				}
			}
			return written, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		}
	}
	return 0, lastErr
}

// BatchSize exposes the current adaptive batch size, for tests and stats.
func (w *ChunkedLinkWriter) BatchSize() int { return w.batchSize }

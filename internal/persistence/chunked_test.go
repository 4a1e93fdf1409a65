package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyLinks fails according to failOn and records successful rows.
type flakyLinks struct {
	MarketLinkRepository
	failOn  func(batch []LinkUpsert) bool
	calls   int
	written []LinkUpsert
}

func (f *flakyLinks) UpsertLinks(ctx context.Context, links []LinkUpsert) (int, error) {
	f.calls++
	if f.failOn != nil && f.failOn(links) {
		return 0, assert.AnError
	}
	f.written = append(f.written, links...)
	return len(links), nil
}

func makeLinks(n int) []LinkUpsert {
	out := make([]LinkUpsert, n)
	for i := range out {
		out[i] = LinkUpsert{LeftMarketID: int64(i + 1), RightMarketID: int64(100 + i), Score: 0.7}
	}
	return out
}

func TestChunkedWriterHappyPath(t *testing.T) {
	repo := &flakyLinks{}
	w := NewChunkedLinkWriter(repo, 10, 2, 3)

	n, err := w.WriteLinks(context.Background(), makeLinks(25))
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	assert.Equal(t, 3, repo.calls)
	assert.Equal(t, 10, w.BatchSize())
}

func TestChunkedWriterHalvesOnFailure(t *testing.T) {
	first := true
	repo := &flakyLinks{failOn: func(batch []LinkUpsert) bool {
		if first {
			first = false
			return true
		}
		return false
	}}
	w := NewChunkedLinkWriter(repo, 4, 1, 3)

	n, err := w.WriteLinks(context.Background(), makeLinks(4))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	// one failure halves the batch, the halves are re-driven individually
	assert.Equal(t, 2, w.BatchSize())
	assert.Len(t, repo.written, 4)
}

func TestChunkedWriterRestoresAfterSuccessRun(t *testing.T) {
	first := true
	repo := &flakyLinks{failOn: func(batch []LinkUpsert) bool {
		if first {
			first = false
			return true
		}
		return false
	}}
	w := NewChunkedLinkWriter(repo, 4, 1, 3)

	_, err := w.WriteLinks(context.Background(), makeLinks(4))
	require.NoError(t, err)
	require.Equal(t, 2, w.BatchSize())

	// three clean batches in a row double the size back to the cap
	n, err := w.WriteLinks(context.Background(), makeLinks(12))
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, 4, w.BatchSize())
}

func TestChunkedWriterSkipsPoisonBatch(t *testing.T) {
	repo := &flakyLinks{failOn: func(batch []LinkUpsert) bool {
		for _, l := range batch {
			if l.LeftMarketID == 4 {
				return true
			}
		}
		return false
	}}
	w := NewChunkedLinkWriter(repo, 2, 1, 2)

	n, err := w.WriteLinks(context.Background(), makeLinks(4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skipped")
	// everything except the poison row still lands
	assert.Equal(t, 3, n)
	assert.Len(t, repo.written, 3)
}

func TestChunkedWriterEmptyInput(t *testing.T) {
	repo := &flakyLinks{}
	w := NewChunkedLinkWriter(repo, 10, 2, 3)

	n, err := w.WriteLinks(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, repo.calls)
}

func TestChunkedWriterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &flakyLinks{}
	w := NewChunkedLinkWriter(repo, 10, 2, 3)

	_, err := w.WriteLinks(ctx, makeLinks(5))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.calls)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/errkind"
	"github.com/pmxlab/crosslink/internal/persistence"
)

type watchlistRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewWatchlistRepo creates the Postgres watchlist repository.
func NewWatchlistRepo(db *sqlx.DB, timeout time.Duration) persistence.WatchlistRepository {
	return &watchlistRepo{db: db, timeout: timeout}
}

// UpsertMany keeps the highest priority seen per (venue, market): the sync
// feeds items in priority order, and the GREATEST guard makes re-feeding
// idempotent.
func (r *watchlistRepo) UpsertMany(ctx context.Context, items []domain.WatchlistItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, &errkind.DBError{Err: fmt.Errorf("begin watchlist upsert: %w", err)}
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO watchlist (venue, market_id, priority, reason, score, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (venue, market_id) DO UPDATE SET
			priority = GREATEST(watchlist.priority, EXCLUDED.priority),
			reason = CASE WHEN EXCLUDED.priority >= watchlist.priority
				THEN EXCLUDED.reason ELSE watchlist.reason END,
			score = GREATEST(watchlist.score, EXCLUDED.score),
			updated_at = now()`

	count := 0
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, query,
			string(it.Venue), it.MarketID, it.Priority, it.Reason, it.Score); err != nil {
			return count, &errkind.DBError{Err: fmt.Errorf("upsert watchlist %s/%d: %w", it.Venue, it.MarketID, err)}
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, &errkind.DBError{Err: fmt.Errorf("commit watchlist upsert: %w", err)}
	}
	return count, nil
}

func (r *watchlistRepo) List(ctx context.Context, venue domain.Venue, limit, offset int) ([]domain.WatchlistItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}
	var out []domain.WatchlistItem
	err := r.db.SelectContext(ctx, &out, `
		SELECT * FROM watchlist WHERE venue = $1
		ORDER BY priority DESC, score DESC, market_id
		LIMIT $2 OFFSET $3`,
		string(venue), limit, offset)
	if err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("list watchlist: %w", err)}
	}
	return out, nil
}

func (r *watchlistRepo) GetStats(ctx context.Context) (map[domain.Venue]map[int]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx,
		`SELECT venue, priority, COUNT(*) FROM watchlist GROUP BY venue, priority`)
	if err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("watchlist stats: %w", err)}
	}
	defer rows.Close()

	out := map[domain.Venue]map[int]int{}
	for rows.Next() {
		var venue string
		var priority, n int
		if err := rows.Scan(&venue, &priority, &n); err != nil {
			return nil, &errkind.DBError{Err: err}
		}
		v := domain.Venue(venue)
		if out[v] == nil {
			out[v] = map[int]int{}
		}
		out[v][priority] = n
	}
	return out, rows.Err()
}

// PruneBefore drops entries the latest sync did not touch.
func (r *watchlistRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, &errkind.DBError{Err: fmt.Errorf("prune watchlist: %w", err)}
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

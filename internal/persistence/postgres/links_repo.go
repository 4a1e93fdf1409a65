package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/errkind"
	"github.com/pmxlab/crosslink/internal/persistence"
)

type linksRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewLinksRepo creates the Postgres link repository.
func NewLinksRepo(db *sqlx.DB, timeout time.Duration) persistence.MarketLinkRepository {
	return &linksRepo{db: db, timeout: timeout}
}

// UpsertLinks writes a batch in one transaction. The status CASE guard is
// the human-decision race rule: a confirmed or rejected row keeps its
// status no matter what the engine just decided.
func (r *linksRepo) UpsertLinks(ctx context.Context, links []persistence.LinkUpsert) (int, error) {
	if len(links) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, &errkind.DBError{Err: fmt.Errorf("begin upsert links: %w", err)}
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO market_links (left_market_id, right_market_id, left_venue,
			right_venue, topic, score, reason, algo_version, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (left_market_id, right_market_id) DO UPDATE SET
			score = EXCLUDED.score,
			reason = EXCLUDED.reason,
			algo_version = EXCLUDED.algo_version,
			status = CASE WHEN market_links.status = 'suggested'
				THEN EXCLUDED.status ELSE market_links.status END,
			updated_at = now()`

	count := 0
	for _, l := range links {
		if _, err := tx.ExecContext(ctx, query,
			l.LeftMarketID, l.RightMarketID, string(l.LeftVenue), string(l.RightVenue),
			string(l.Topic), l.Score, l.Reason, l.AlgoVersion, string(l.Status)); err != nil {
			return count, &errkind.DBError{Err: fmt.Errorf("upsert link %d:%d: %w", l.LeftMarketID, l.RightMarketID, err)}
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, &errkind.DBError{Err: fmt.Errorf("commit upsert links: %w", err)}
	}
	return count, nil
}

func (r *linksRepo) ListSuggestions(ctx context.Context, q persistence.LinkQuery) ([]domain.MarketLink, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var sb strings.Builder
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString(`SELECT * FROM market_links WHERE score >= ` + arg(q.MinScore))
	if q.Status != "" {
		sb.WriteString(` AND status = ` + arg(string(q.Status)))
	}
	if q.Topic != "" {
		sb.WriteString(` AND topic = ` + arg(string(q.Topic)))
	}
	sb.WriteString(" ORDER BY score DESC, id")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(q.Limit))
	}
	if q.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(q.Offset))
	}

	var out []domain.MarketLink
	if err := r.db.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("list suggestions: %w", err)}
	}
	return out, nil
}

func (r *linksRepo) GetByID(ctx context.Context, id int64) (*domain.MarketLink, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var link domain.MarketLink
	err := r.db.GetContext(ctx, &link, `SELECT * FROM market_links WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNoRows
	}
	if err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("get link %d: %w", id, err)}
	}
	return &link, nil
}

func (r *linksRepo) Confirm(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, domain.LinkConfirmed)
}

func (r *linksRepo) Reject(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, domain.LinkRejected)
}

func (r *linksRepo) setStatus(ctx context.Context, id int64, status domain.LinkStatus) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE market_links SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return &errkind.DBError{Err: fmt.Errorf("set link %d %s: %w", id, status, err)}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return persistence.ErrNoRows
	}
	return nil
}

func (r *linksRepo) CleanupSuggestions(ctx context.Context, q persistence.CleanupQuery) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	status := q.Status
	if status == "" {
		status = domain.LinkSuggested
	}
	var sb strings.Builder
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	where := `status = ` + arg(string(status)) +
		` AND updated_at < now() - (` + arg(q.OlderThanDays) + ` * interval '1 day')`
	if q.AlgoVersion != "" {
		where += ` AND algo_version = ` + arg(q.AlgoVersion)
	}

	if q.DryRun {
		var n int
		sb.WriteString(`SELECT COUNT(*) FROM market_links WHERE ` + where)
		if err := r.db.GetContext(ctx, &n, sb.String(), args...); err != nil {
			return 0, &errkind.DBError{Err: fmt.Errorf("cleanup dry run: %w", err)}
		}
		return n, nil
	}

	sb.WriteString(`DELETE FROM market_links WHERE ` + where)
	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, &errkind.DBError{Err: fmt.Errorf("cleanup suggestions: %w", err)}
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *linksRepo) CountByStatus(ctx context.Context) (map[domain.LinkStatus]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx,
		`SELECT status, COUNT(*) FROM market_links GROUP BY status`)
	if err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("count by status: %w", err)}
	}
	defer rows.Close()

	out := map[domain.LinkStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, &errkind.DBError{Err: err}
		}
		out[domain.LinkStatus(status)] = n
	}
	return out, rows.Err()
}

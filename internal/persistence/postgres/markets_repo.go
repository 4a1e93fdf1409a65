package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/errkind"
	"github.com/pmxlab/crosslink/internal/persistence"
)

type marketsRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewMarketsRepo creates the Postgres market repository.
func NewMarketsRepo(db *sqlx.DB, timeout time.Duration) persistence.MarketRepository {
	return &marketsRepo{db: db, timeout: timeout}
}

// marketRow maps the markets table; JSONB columns land as raw bytes.
type marketRow struct {
	ID           int64           `db:"id"`
	Venue        string          `db:"venue"`
	ExternalID   string          `db:"external_id"`
	Title        string          `db:"title"`
	Category     sql.NullString  `db:"category"`
	Status       string          `db:"status"`
	CloseTime    sql.NullTime    `db:"close_time"`
	DerivedTopic sql.NullString  `db:"derived_topic"`
	Metadata     json.RawMessage `db:"metadata"`
	Tags         json.RawMessage `db:"tags"`
	Outcomes     json.RawMessage `db:"outcomes"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r marketRow) toDomain() domain.Market {
	m := domain.Market{
		ID:         r.ID,
		Venue:      domain.Venue(r.Venue),
		ExternalID: r.ExternalID,
		Title:      r.Title,
		Status:     domain.MarketStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Category.Valid {
		m.Category = &r.Category.String
	}
	if r.CloseTime.Valid {
		t := r.CloseTime.Time
		m.CloseTime = &t
	}
	if r.DerivedTopic.Valid {
		t := domain.Topic(r.DerivedTopic.String)
		m.DerivedTopic = &t
	}
	json.Unmarshal(r.Metadata, &m.Metadata)
	json.Unmarshal(r.Tags, &m.Tags)
	json.Unmarshal(r.Outcomes, &m.Outcomes)
	return m
}

func (r *marketsRepo) ListEligibleMarkets(ctx context.Context, q persistence.MarketQuery) ([]domain.Market, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var sb strings.Builder
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString(`SELECT * FROM markets WHERE venue = ` + arg(string(q.Venue)))
	sb.WriteString(` AND status IN ('active','closed')`)
	if q.LookbackHours > 0 {
		sb.WriteString(` AND (close_time IS NULL OR close_time >= now() - (` +
			arg(q.LookbackHours) + ` * interval '1 hour'))`)
	}
	if q.Topic != "" {
		// Topic filter is advisory: unclassified rows still flow through so
		// the keyword filter can catch them.
		sb.WriteString(` AND (derived_topic = ` + arg(string(q.Topic)) + ` OR derived_topic IS NULL)`)
	}
	if len(q.TitleKeywords) > 0 {
		ors := make([]string, 0, len(q.TitleKeywords))
		for _, kw := range q.TitleKeywords {
			ors = append(ors, "title ILIKE "+arg("%"+kw+"%"))
		}
		sb.WriteString(" AND (" + strings.Join(ors, " OR ") + ")")
	}
	if len(q.TickerPatterns) > 0 {
		ors := make([]string, 0, len(q.TickerPatterns))
		for _, p := range q.TickerPatterns {
			ors = append(ors, "external_id LIKE "+arg(p))
		}
		sb.WriteString(" AND (" + strings.Join(ors, " OR ") + ")")
	}
	switch q.OrderBy {
	case "id":
		sb.WriteString(" ORDER BY id")
	default:
		sb.WriteString(" ORDER BY close_time NULLS LAST, id")
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(q.Limit))
	}

	var rows []marketRow
	if err := r.db.SelectContext(ctx, &rows, sb.String(), args...); err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("list eligible markets: %w", err)}
	}
	out := make([]domain.Market, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *marketsRepo) UpsertMarkets(ctx context.Context, markets []domain.Market) (int, error) {
	if len(markets) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, &errkind.DBError{Err: fmt.Errorf("begin upsert markets: %w", err)}
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO markets (venue, external_id, title, category, status,
			close_time, derived_topic, metadata, tags, outcomes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (venue, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			close_time = EXCLUDED.close_time,
			derived_topic = EXCLUDED.derived_topic,
			metadata = EXCLUDED.metadata,
			tags = EXCLUDED.tags,
			outcomes = EXCLUDED.outcomes,
			updated_at = now()`

	count := 0
	for _, m := range markets {
		meta, _ := json.Marshal(m.Metadata)
		tags, _ := json.Marshal(m.Tags)
		outcomes, _ := json.Marshal(m.Outcomes)
		var topic *string
		if m.DerivedTopic != nil {
			s := string(*m.DerivedTopic)
			topic = &s
		}
		if _, err := tx.ExecContext(ctx, query,
			string(m.Venue), m.ExternalID, m.Title, m.Category, string(m.Status),
			m.CloseTime, topic, meta, tags, outcomes); err != nil {
			return count, &errkind.DBError{Err: fmt.Errorf("upsert market %s/%s: %w", m.Venue, m.ExternalID, err)}
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, &errkind.DBError{Err: fmt.Errorf("commit upsert markets: %w", err)}
	}
	return count, nil
}

func (r *marketsRepo) GetStatusCounts(ctx context.Context, venue domain.Venue) (map[domain.MarketStatus]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx,
		`SELECT status, COUNT(*) FROM markets WHERE venue = $1 GROUP BY status`,
		string(venue))
	if err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("status counts: %w", err)}
	}
	defer rows.Close()

	out := map[domain.MarketStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, &errkind.DBError{Err: err}
		}
		out[domain.MarketStatus(status)] = n
	}
	return out, rows.Err()
}

func (r *marketsRepo) CountBySeriesTicker(ctx context.Context, venue domain.Venue, limit int) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT COALESCE(metadata->>'series_ticker', ''), COUNT(*)
		FROM markets WHERE venue = $1
		GROUP BY 1 ORDER BY 2 DESC LIMIT $2`,
		string(venue), limit)
	if err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("count by series ticker: %w", err)}
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var ticker string
		var n int
		if err := rows.Scan(&ticker, &n); err != nil {
			return nil, &errkind.DBError{Err: err}
		}
		out[ticker] = n
	}
	return out, rows.Err()
}

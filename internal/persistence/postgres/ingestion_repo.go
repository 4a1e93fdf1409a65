package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/errkind"
	"github.com/pmxlab/crosslink/internal/persistence"
)

type ingestionRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewIngestionRepo creates the Postgres ingestion-run repository.
func NewIngestionRepo(db *sqlx.DB, timeout time.Duration) persistence.IngestionRepository {
	return &ingestionRepo{db: db, timeout: timeout}
}

func (r *ingestionRepo) StartRun(ctx context.Context, run *persistence.IngestionRun) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (id, venue, started_at, cursor, status)
		VALUES ($1, $2, $3, $4, 'running')`,
		run.ID, string(run.Venue), run.StartedAt, run.Cursor)
	if err != nil {
		return &errkind.DBError{Err: fmt.Errorf("start ingestion run: %w", err)}
	}
	return nil
}

func (r *ingestionRepo) UpdateCursor(ctx context.Context, runID, cursor string, pages, markets int) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		UPDATE ingestion_runs SET cursor = $1, pages = $2, markets = $3
		WHERE id = $4`,
		cursor, pages, markets, runID)
	if err != nil {
		return &errkind.DBError{Err: fmt.Errorf("update ingestion cursor: %w", err)}
	}
	return nil
}

func (r *ingestionRepo) FinishRun(ctx context.Context, run *persistence.IngestionRun) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		UPDATE ingestion_runs SET finished_at = $1, cursor = $2, pages = $3,
			markets = $4, last_error = $5, status = $6
		WHERE id = $7`,
		run.FinishedAt, run.Cursor, run.Pages, run.Markets, run.LastError, run.Status, run.ID)
	if err != nil {
		return &errkind.DBError{Err: fmt.Errorf("finish ingestion run: %w", err)}
	}
	return nil
}

func (r *ingestionRepo) LastRun(ctx context.Context, venue domain.Venue) (*persistence.IngestionRun, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var run persistence.IngestionRun
	err := r.db.GetContext(ctx, &run, `
		SELECT id, venue, started_at, finished_at, cursor, pages, markets,
			last_error, status
		FROM ingestion_runs WHERE venue = $1
		ORDER BY started_at DESC LIMIT 1`,
		string(venue))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNoRows
	}
	if err != nil {
		return nil, &errkind.DBError{Err: fmt.Errorf("last ingestion run: %w", err)}
	}
	return &run, nil
}

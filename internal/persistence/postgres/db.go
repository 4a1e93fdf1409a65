// Package postgres implements the persistence interfaces on PostgreSQL
// through sqlx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens and pings a Postgres pool.
func Connect(ctx context.Context, dsn string, maxOpen int) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist. Deployments that
// manage migrations externally can skip it.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS markets (
			id            BIGSERIAL PRIMARY KEY,
			venue         TEXT NOT NULL,
			external_id   TEXT NOT NULL,
			title         TEXT NOT NULL,
			category      TEXT,
			status        TEXT NOT NULL,
			close_time    TIMESTAMPTZ,
			derived_topic TEXT,
			metadata      JSONB NOT NULL DEFAULT '{}',
			tags          JSONB NOT NULL DEFAULT '[]',
			outcomes      JSONB NOT NULL DEFAULT '[]',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (venue, external_id)
		)`,
		`CREATE INDEX IF NOT EXISTS markets_topic_close_idx
			ON markets (venue, derived_topic, close_time)`,
		`CREATE TABLE IF NOT EXISTS market_links (
			id              BIGSERIAL PRIMARY KEY,
			left_market_id  BIGINT NOT NULL,
			right_market_id BIGINT NOT NULL,
			left_venue      TEXT NOT NULL,
			right_venue     TEXT NOT NULL,
			topic           TEXT NOT NULL,
			score           DOUBLE PRECISION NOT NULL,
			reason          TEXT NOT NULL DEFAULT '',
			algo_version    TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL DEFAULT 'suggested',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (left_market_id, right_market_id)
		)`,
		`CREATE INDEX IF NOT EXISTS market_links_status_score_idx
			ON market_links (status, score DESC)`,
		`CREATE TABLE IF NOT EXISTS watchlist (
			venue      TEXT NOT NULL,
			market_id  BIGINT NOT NULL,
			priority   INT NOT NULL,
			reason     TEXT NOT NULL DEFAULT '',
			score      DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (venue, market_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ingestion_runs (
			id          TEXT PRIMARY KEY,
			venue       TEXT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			cursor      TEXT NOT NULL DEFAULT '',
			pages       INT NOT NULL DEFAULT 0,
			markets     INT NOT NULL DEFAULT 0,
			last_error  TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'running'
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Package sched runs the daemon schedules: ingest, match, and watchlist
// sync on cron expressions.
package sched

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/pmxlab/crosslink/internal/config"
	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/engine"
	"github.com/pmxlab/crosslink/internal/ingest"
	"github.com/pmxlab/crosslink/internal/watchlist"
)

// Daemon wires the three recurring jobs. The match job always runs the
// watchlist sync afterward, so polled quotes track the latest links.
type Daemon struct {
	cron     *cron.Cron
	eng      *engine.Engine
	ingester *ingest.Ingester
	syncer   *watchlist.Syncer
	cfg      *config.Config

	mu      sync.Mutex // one job of each kind at a time
	running bool
}

func NewDaemon(eng *engine.Engine, ingester *ingest.Ingester, syncer *watchlist.Syncer, cfg *config.Config) *Daemon {
	return &Daemon{
		cron:     cron.New(),
		eng:      eng,
		ingester: ingester,
		syncer:   syncer,
		cfg:      cfg,
	}
}

// Start schedules the jobs and runs until ctx is cancelled.
func (d *Daemon) Start(ctx context.Context) error {
	if _, err := d.cron.AddFunc(d.cfg.Daemon.IngestSchedule, func() {
		d.guarded("ingest", func() {
			d.ingester.RunAll(ctx)
		})
	}); err != nil {
		return err
	}
	if _, err := d.cron.AddFunc(d.cfg.Daemon.MatchSchedule, func() {
		d.guarded("match", func() {
			if _, err := d.eng.RunAll(ctx, domain.VenueKalshi, domain.VenuePolymarket); err != nil {
				log.Error().Err(err).Msg("scheduled match pass failed")
				return
			}
			if _, err := d.syncer.Sync(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled watchlist sync failed")
			}
		})
	}); err != nil {
		return err
	}

	d.cron.Start()
	log.Info().
		Str("ingest", d.cfg.Daemon.IngestSchedule).
		Str("match", d.cfg.Daemon.MatchSchedule).
		Msg("daemon schedules started")

	<-ctx.Done()
	stopCtx := d.cron.Stop()
	<-stopCtx.Done()
	log.Info().Msg("daemon stopped")
	return ctx.Err()
}

// guarded skips a tick when the previous one is still running, so a slow
// catalog page cannot stack runs.
func (d *Daemon) guarded(name string, fn func()) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		log.Warn().Str("job", name).Msg("previous job still running, skipping tick")
		return
	}
	d.running = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()
	fn()
}

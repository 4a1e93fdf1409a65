// Package ingest pages venue catalogs into the markets table: normalize,
// classify, upsert, and record the run with its error taxonomy.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pmxlab/crosslink/internal/classify"
	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/errkind"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/venue"
)

// Ingester runs catalog ingestion for one or more venues.
type Ingester struct {
	markets    persistence.MarketRepository
	runs       persistence.IngestionRepository
	classifier *classify.Classifier
	catalogs   map[domain.Venue]venue.Catalog
	pageLimit  map[domain.Venue]int
	batchSize  int
}

func New(markets persistence.MarketRepository, runs persistence.IngestionRepository, batchSize int) *Ingester {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Ingester{
		markets:    markets,
		runs:       runs,
		classifier: classify.New(),
		catalogs:   map[domain.Venue]venue.Catalog{},
		pageLimit:  map[domain.Venue]int{},
		batchSize:  batchSize,
	}
}

// AddCatalog registers a venue catalog client.
func (in *Ingester) AddCatalog(cat venue.Catalog, pageLimit int) {
	in.catalogs[cat.Venue()] = cat
	in.pageLimit[cat.Venue()] = pageLimit
}

// Run ingests one venue's full catalog. A fetch failure mid-pagination
// finishes the run as partial: everything already paged stays written.
func (in *Ingester) Run(ctx context.Context, v domain.Venue) (*persistence.IngestionRun, error) {
	cat, ok := in.catalogs[v]
	if !ok {
		return nil, fmt.Errorf("no catalog registered for venue %s", v)
	}

	run := &persistence.IngestionRun{
		ID:          uuid.NewString(),
		Venue:       v,
		StartedAt:   time.Now().UTC(),
		ErrorCounts: map[string]int{},
		Status:      "running",
	}
	if err := in.runs.StartRun(ctx, run); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	var batch []domain.Market
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := in.markets.UpsertMarkets(ctx, batch)
		run.Markets += n
		batch = batch[:0]
		return err
	}

	pageErr := venue.FetchAll(ctx, cat, in.pageLimit[v], func(page venue.Page) error {
		run.Pages++
		run.Cursor = page.NextCursor
		for _, m := range page.Markets {
			if m.ExternalID == "" || m.Title == "" {
				run.ErrorCounts[string(errkind.KindParse)]++
				continue
			}
			result := in.classifier.Classify(&m)
			if result.Topic != domain.TopicUnknown {
				topic := result.Topic
				m.DerivedTopic = &topic
			}
			batch = append(batch, m)
			if len(batch) >= in.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if run.Pages%10 == 0 {
			if err := in.runs.UpdateCursor(ctx, run.ID, run.Cursor, run.Pages, run.Markets); err != nil {
				log.Warn().Err(err).Msg("cursor watermark update failed")
			}
		}
		return nil
	})
	if ferr := flush(); ferr != nil && pageErr == nil {
		pageErr = ferr
	}

	now := time.Now().UTC()
	run.FinishedAt = &now
	switch {
	case pageErr == nil:
		run.Status = "ok"
	case run.Markets > 0:
		run.Status = "partial"
		run.LastError = pageErr.Error()
		run.ErrorCounts[string(errkind.Classify(pageErr))]++
	default:
		run.Status = "failed"
		run.LastError = pageErr.Error()
		run.ErrorCounts[string(errkind.Classify(pageErr))]++
	}
	if err := in.runs.FinishRun(ctx, run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("finish run write failed")
	}

	evt := log.Info()
	if run.Status != "ok" {
		evt = log.Warn()
	}
	evt.
		Str("run_id", run.ID).
		Str("venue", string(v)).
		Str("status", run.Status).
		Int("pages", run.Pages).
		Int("markets", run.Markets).
		Msg("ingestion run finished")

	if run.Status == "failed" {
		return run, pageErr
	}
	return run, nil
}

// RunAll ingests every registered venue. One venue failing does not stop
// the others.
func (in *Ingester) RunAll(ctx context.Context) []*persistence.IngestionRun {
	var out []*persistence.IngestionRun
	for _, v := range domain.AllVenues() {
		if _, ok := in.catalogs[v]; !ok {
			continue
		}
		run, err := in.Run(ctx, v)
		if err != nil {
			log.Error().Err(err).Str("venue", string(v)).Msg("venue ingestion failed, continuing")
		}
		if run != nil {
			out = append(out, run)
		}
	}
	return out
}

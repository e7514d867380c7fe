// Package importer persists a harvest snapshot into the record store.
// The import is best-effort complete: per-record faults are counted and
// logged, never allowed to abort the remaining records.
package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/logger"
)

// Store is the destination boundary: schema creation plus atomic upsert
// keyed on the record's external id.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, job *domain.Job) (bool, error)
}

// Summary reports the outcome of one import run.
type Summary struct {
	RunID    string
	Total    int
	Inserted int
	Updated  int
	Errored  int
}

// Importer writes harvest snapshots to the store.
type Importer struct {
	store Store
	log   logger.Interface
}

// New creates an importer.
func New(store Store, log logger.Interface) *Importer {
	return &Importer{
		store: store,
		log:   log.WithComponent("importer"),
	}
}

// Import ensures the schema exists and upserts every job in the
// snapshot. Schema failure is fatal; individual upsert failures are
// counted in the summary and logged at error level.
func (i *Importer) Import(ctx context.Context, output *domain.HarvestOutput) (*Summary, error) {
	runID := uuid.New().String()
	log := i.log.WithRunID(runID)

	if err := i.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	summary := &Summary{
		RunID: runID,
		Total: len(output.Jobs),
	}

	log.Info("import started", "jobs", summary.Total, "scraped_at", output.ScrapedAt)

	for idx := range output.Jobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		job := &output.Jobs[idx]

		inserted, err := i.store.Upsert(ctx, job)
		if err != nil {
			summary.Errored++
			log.Error("upsert failed", "external_id", job.ExternalID, "error", err.Error())
			continue
		}

		if inserted {
			summary.Inserted++
		} else {
			summary.Updated++
		}
	}

	log.Info("import finished",
		"total", summary.Total,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"errored", summary.Errored,
	)

	return summary, nil
}

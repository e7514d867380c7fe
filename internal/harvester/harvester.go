// Package harvester fetches full details for confirmed identifiers with
// bounded concurrency. Faults are isolated at the item boundary: one bad
// page never aborts its batch or the pipeline.
package harvester

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/fetcher"
	"github.com/devjobshq/jobharvest/internal/logger"
)

// Extractor turns a fetched page into a job record, or nil for pages
// that must be skipped (soft errors, unparseable content).
type Extractor interface {
	Extract(page *fetcher.Page, externalID string) *domain.Job
}

// Config holds the harvest pipeline knobs.
type Config struct {
	// BatchSize is the number of detail pages fetched concurrently.
	BatchSize int
	// FetchTimeout bounds each detail fetch.
	FetchTimeout time.Duration
	// BaseURL and DetailPath derive each identifier's detail URL.
	BaseURL    string
	DetailPath string
}

// Harvester runs the batched detail-fetch pipeline.
type Harvester struct {
	fetcher   fetcher.Interface
	extractor Extractor
	log       logger.Interface
	cfg       Config
}

// New creates a harvester.
func New(f fetcher.Interface, extractor Extractor, cfg Config, log logger.Interface) *Harvester {
	return &Harvester{
		fetcher:   f,
		extractor: extractor,
		log:       log.WithComponent("harvester"),
		cfg:       cfg,
	}
}

// Harvest fetches details for ids in batches and assembles the snapshot.
// Within a batch items run concurrently; batches run strictly in
// sequence. Survivors keep the identifier list's order: batch N precedes
// batch N+1, and within a batch the original id order is preserved.
func (h *Harvester) Harvest(ctx context.Context, ids []int) (*domain.HarvestOutput, error) {
	jobs := make([]domain.Job, 0, len(ids))

	h.log.Info("harvest started", "ids", len(ids), "batch_size", h.cfg.BatchSize)

	for start := 0; start < len(ids); start += h.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+h.cfg.BatchSize, len(ids))

		for _, job := range h.harvestBatch(ctx, ids[start:end]) {
			if job != nil {
				jobs = append(jobs, *job)
			}
		}

		h.log.Info("batch harvested", "processed", end, "total", len(ids), "jobs", len(jobs))
	}

	h.log.Info("harvest finished", "jobs", len(jobs), "skipped", len(ids)-len(jobs))

	return domain.NewHarvestOutput(jobs), nil
}

// harvestBatch processes one batch concurrently. The result slice is
// aligned with the batch's id order; failed items hold nil.
func (h *Harvester) harvestBatch(ctx context.Context, ids []int) []*domain.Job {
	results := make([]*domain.Job, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)

		go func(slot, id int) {
			defer wg.Done()
			results[slot] = h.harvestOne(ctx, id)
		}(i, id)
	}
	wg.Wait()

	return results
}

// harvestOne fetches and extracts a single record. Every fault, panics
// included, is converted to a nil result at this boundary.
func (h *Harvester) harvestOne(ctx context.Context, id int) (job *domain.Job) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("harvest item panicked", "id", id, "panic", r)
			job = nil
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, h.cfg.FetchTimeout)
	defer cancel()

	page, err := h.fetcher.Fetch(fetchCtx, domain.DetailURL(h.cfg.BaseURL, h.cfg.DetailPath, id))
	if err != nil {
		h.log.Warn("detail fetch failed", "id", id, "error", err.Error())
		return nil
	}

	return h.extractor.Extract(page, strconv.Itoa(id))
}

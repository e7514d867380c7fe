// Package pipeline assembles and runs the scrape pipeline: bootstrap
// discovery, backward ID scan, and detail harvest.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/devjobshq/jobharvest/internal/config"
	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/fetcher"
	"github.com/devjobshq/jobharvest/internal/harvester"
	"github.com/devjobshq/jobharvest/internal/logger"
	"github.com/devjobshq/jobharvest/internal/parser"
	"github.com/devjobshq/jobharvest/internal/scanner"
)

// ScrapeStats summarizes one scrape run for reporting.
type ScrapeStats struct {
	StartID    int
	Discovered int
	Harvested  int
	Duration   time.Duration
}

// Runner wires the pipeline components from configuration and runs them.
type Runner struct {
	cfg config.Interface
	log logger.Interface
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg config.Interface, log logger.Interface) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Scrape runs bootstrap → scan → harvest and returns the snapshot.
// limit > 0 caps the number of discovered identifiers.
func (r *Runner) Scrape(ctx context.Context, limit int) (*domain.HarvestOutput, *ScrapeStats, error) {
	started := time.Now()

	source := r.cfg.GetSourceConfig()
	scanCfg := r.cfg.GetScannerConfig()
	harvestCfg := r.cfg.GetHarvesterConfig()

	recordParser := parser.New(r.log)

	// Bootstrap navigation tolerates slower page loads than probes do,
	// so it gets its own client.
	bootstrapClient := fetcher.NewClient(fetcher.Config{
		Timeout:   scanCfg.BootstrapTimeout,
		UserAgent: source.UserAgent,
	}, r.log)

	bootstrapper := scanner.NewBootstrapper(
		bootstrapClient,
		source.BaseURL,
		source.ListingPath,
		scanCfg.BootstrapRetries,
		scanCfg.BootstrapTimeout,
		scanCfg.FallbackStartID,
		r.log,
	)

	startID := bootstrapper.DiscoverStartID(ctx)

	probeClient := fetcher.NewClient(fetcher.Config{
		Timeout:   scanCfg.ProbeTimeout,
		UserAgent: source.UserAgent,
	}, r.log)

	prober := scanner.NewPageProber(
		probeClient,
		recordParser,
		source.BaseURL,
		source.DetailPath,
		scanCfg.ProbeTimeout,
		r.log,
	)

	idScanner := scanner.New(prober, scanner.Config{
		BatchSize:        scanCfg.BatchSize,
		InvalidThreshold: scanCfg.InvalidThreshold,
	}, r.log)

	ids, err := idScanner.Scan(ctx, startID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("scan from %d: %w", startID, err)
	}

	harvestClient := fetcher.NewClient(fetcher.Config{
		Timeout:   harvestCfg.FetchTimeout,
		UserAgent: source.UserAgent,
	}, r.log)

	jobHarvester := harvester.New(harvestClient, recordParser, harvester.Config{
		BatchSize:    harvestCfg.BatchSize,
		FetchTimeout: harvestCfg.FetchTimeout,
		BaseURL:      source.BaseURL,
		DetailPath:   source.DetailPath,
	}, r.log)

	output, err := jobHarvester.Harvest(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("harvest %d ids: %w", len(ids), err)
	}

	stats := &ScrapeStats{
		StartID:    startID,
		Discovered: len(ids),
		Harvested:  output.TotalJobs,
		Duration:   time.Since(started),
	}

	return output, stats, nil
}

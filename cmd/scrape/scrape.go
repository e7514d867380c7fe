// Package scrape implements the scrape command: discover live job
// identifiers, harvest their details, and write the snapshot artifact.
package scrape

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/devjobshq/jobharvest/cmd/common"
	"github.com/devjobshq/jobharvest/internal/artifact"
	"github.com/devjobshq/jobharvest/internal/config"
	"github.com/devjobshq/jobharvest/internal/logger"
	"github.com/devjobshq/jobharvest/internal/pipeline"
)

// Scraper handles the scrape operation
type Scraper struct {
	config config.Interface
	logger logger.Interface
	limit  int
	output string
}

// NewScraper creates a new scraper instance
func NewScraper(cfg config.Interface, log logger.Interface, limit int, output string) *Scraper {
	return &Scraper{
		config: cfg,
		logger: log,
		limit:  limit,
		output: output,
	}
}

// Start runs the scrape pipeline and writes the snapshot artifact.
// Per-item failures never surface here; only a pipeline that cannot
// proceed at all (no identifiers, unwritable artifact) returns an error.
func (s *Scraper) Start(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	runner := pipeline.NewRunner(s.config, s.logger)

	output, stats, err := runner.Scrape(ctx, s.limit)
	if err != nil {
		return err
	}

	if err := artifact.Write(s.output, output); err != nil {
		return fmt.Errorf("write artifact %s: %w", s.output, err)
	}

	s.logger.Info("snapshot written", "path", s.output, "jobs", output.TotalJobs)

	printSummary(stats, s.output)

	return nil
}

// printSummary renders the final run summary table.
func printSummary(stats *pipeline.ScrapeStats, outputPath string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Start ID", "Discovered", "Harvested", "Duration", "Output"})
	t.AppendRow(table.Row{
		stats.StartID,
		stats.Discovered,
		stats.Harvested,
		stats.Duration.Round(time.Millisecond),
		outputPath,
	})
	t.Render()
}

// Command returns the scrape command for use in the root command.
func Command() *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Discover and harvest job postings",
		Long: `This command scans the source site's identifier space backward from the
most recent posting, harvests details for every live identifier, and
writes the snapshot to a JSON artifact.

The --limit flag caps the number of discovered identifiers; --output
sets the artifact path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get dependencies
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			scraper := NewScraper(deps.Config, deps.Logger, limit, output)

			return scraper.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0,
		"Maximum number of job identifiers to discover (0 means no limit)")
	cmd.Flags().StringVar(&output, "output", "jobs.json",
		"Path of the JSON snapshot artifact")

	return cmd
}

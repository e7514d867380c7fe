// Package importcmd implements the import command: load a snapshot
// artifact and upsert its records into PostgreSQL.
package importcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/devjobshq/jobharvest/cmd/common"
	"github.com/devjobshq/jobharvest/internal/artifact"
	"github.com/devjobshq/jobharvest/internal/config"
	"github.com/devjobshq/jobharvest/internal/importer"
	"github.com/devjobshq/jobharvest/internal/logger"
	"github.com/devjobshq/jobharvest/internal/storage"
)

// Runner handles the import operation
type Runner struct {
	config config.Interface
	logger logger.Interface
	input  string
}

// NewRunner creates a new import runner instance
func NewRunner(cfg config.Interface, log logger.Interface, input string) *Runner {
	return &Runner{
		config: cfg,
		logger: log,
		input:  input,
	}
}

// Start reads the artifact and imports it. Per-record failures are
// reported in the summary; store-level failures are fatal.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.config.ValidateImport(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	output, err := artifact.Read(r.input)
	if err != nil {
		return err
	}

	db, err := storage.NewPostgresConnection(r.config.GetDatabaseConfig().URL)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewJobRepository(db)

	summary, err := importer.New(repo, r.logger).Import(ctx, output)
	if err != nil {
		return fmt.Errorf("import %s: %w", r.input, err)
	}

	printSummary(summary)

	return nil
}

// printSummary renders the final import summary table.
func printSummary(summary *importer.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Total", "Inserted", "Updated", "Errored"})
	t.AppendRow(table.Row{
		summary.RunID,
		summary.Total,
		summary.Inserted,
		summary.Updated,
		summary.Errored,
	})
	t.Render()
}

// Command returns the import command for use in the root command.
func Command() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a harvest snapshot into PostgreSQL",
		Long: `This command reads a JSON snapshot artifact produced by scrape and
upserts every record into the jobs table, keyed on the external id.
Records that fail individually are counted and logged without aborting
the rest of the import.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get dependencies
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			runner := NewRunner(deps.Config, deps.Logger, input)

			return runner.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&input, "input", "jobs.json",
		"Path of the JSON snapshot artifact to import")

	return cmd
}

// Package schedule implements the schedule command: a daemon that runs
// the scrape and import phases on a cron schedule and exposes a small
// health endpoint.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	cmdcommon "github.com/devjobshq/jobharvest/cmd/common"
	"github.com/devjobshq/jobharvest/internal/artifact"
	"github.com/devjobshq/jobharvest/internal/config"
	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/importer"
	"github.com/devjobshq/jobharvest/internal/logger"
	"github.com/devjobshq/jobharvest/internal/pipeline"
	"github.com/devjobshq/jobharvest/internal/storage"
)

// shutdownTimeout bounds the health server drain on exit.
const shutdownTimeout = 10 * time.Second

// RunStatus records the outcome of the most recent scheduled run.
type RunStatus struct {
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Harvested  int               `json:"harvested"`
	Import     *importer.Summary `json:"import,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Daemon runs scheduled scrape+import cycles.
type Daemon struct {
	config config.Interface
	logger logger.Interface

	mu      sync.RWMutex
	lastRun *RunStatus
}

// NewDaemon creates a schedule daemon.
func NewDaemon(cfg config.Interface, log logger.Interface) *Daemon {
	return &Daemon{
		config: cfg,
		logger: log.WithComponent("schedule"),
	}
}

// Start blocks running the cron loop and health server until the context
// is cancelled.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	schedCfg := d.config.GetScheduleConfig()

	server := d.healthServer(schedCfg.HealthAddr)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("health server failed", "error", err.Error())
		}
	}()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedCfg.Spec, func() {
		d.runOnce(ctx)
	}); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", schedCfg.Spec, err)
	}
	scheduler.Start()

	d.logger.Info("scheduler started", "spec", schedCfg.Spec, "health_addr", schedCfg.HealthAddr)

	<-ctx.Done()

	d.logger.Info("shutdown signal received")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health server shutdown: %w", err)
	}

	return nil
}

// runOnce performs a full scrape, artifact write, and (when a database
// is configured) import. Failures are recorded and logged; a failed run
// never stops the daemon.
func (d *Daemon) runOnce(ctx context.Context) {
	schedCfg := d.config.GetScheduleConfig()

	status := &RunStatus{StartedAt: time.Now().UTC()}
	defer func() {
		status.FinishedAt = time.Now().UTC()
		d.mu.Lock()
		d.lastRun = status
		d.mu.Unlock()
	}()

	output, stats, err := pipeline.NewRunner(d.config, d.logger).Scrape(ctx, 0)
	if err != nil {
		status.Error = err.Error()
		d.logger.Error("scheduled scrape failed", "error", err.Error())
		return
	}
	status.Harvested = stats.Harvested

	if err := artifact.Write(schedCfg.OutputPath, output); err != nil {
		status.Error = err.Error()
		d.logger.Error("scheduled artifact write failed", "error", err.Error())
		return
	}

	if d.config.GetDatabaseConfig().URL == "" {
		d.logger.Info("no database configured, skipping import")
		return
	}

	summary, err := d.importOutput(ctx, output)
	if err != nil {
		status.Error = err.Error()
		d.logger.Error("scheduled import failed", "error", err.Error())
		return
	}
	status.Import = summary
}

// importOutput connects to the store and imports the snapshot.
func (d *Daemon) importOutput(ctx context.Context, output *domain.HarvestOutput) (*importer.Summary, error) {
	db, err := storage.NewPostgresConnection(d.config.GetDatabaseConfig().URL)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return importer.New(storage.NewJobRepository(db), d.logger).Import(ctx, output)
}

// healthServer builds the HTTP server exposing daemon state.
func (d *Daemon) healthServer(addr string) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "jobharvest",
		})
	})

	router.GET("/runs/latest", func(c *gin.Context) {
		d.mu.RLock()
		last := d.lastRun
		d.mu.RUnlock()

		if last == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no runs yet"})
			return
		}
		c.JSON(http.StatusOK, last)
	})

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Command returns the schedule command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run scrape and import on a cron schedule",
		Long: `This command starts a daemon that runs the full scrape and import cycle
on the configured cron schedule and serves a health endpoint reporting
the latest run's outcome.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get dependencies
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return NewDaemon(deps.Config, deps.Logger).Start(ctx)
		},
	}
}

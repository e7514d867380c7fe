package pipeline_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devjobshq/jobharvest/internal/config"
	"github.com/devjobshq/jobharvest/internal/logger"
	"github.com/devjobshq/jobharvest/internal/pipeline"
)

const listingPage = `<html><body>
<div class="job-list">
  <a href="jobdescription.php?job_id=1003">Program Officer</a>
  <a href="jobdescription.php?job_id=1002">Field Coordinator</a>
  <a href="jobdescription.php?job_id=1000">Research Associate</a>
</div>
</body></html>`

func detailPage(id int) string {
	return fmt.Sprintf(`<html><body>
<h1>Job %d</h1>
<p>Organization: Test Org %d</p>
<p>Location: Mumbai</p>
<p>Apply By: 31 Dec 2026</p>
<p>Sectors: Education, Health</p>
<p>Job %d</p>
<p>Line one of the description.</p>
<p>Line two of the description.</p>
<p>Other Jobs You May Like</p>
</body></html>`, id, id, id)
}

// fakeSite serves a listing page plus detail pages for the given ids.
// Every other id returns 404, which the probe treats as invalid.
func fakeSite(t *testing.T, validIDs map[int]bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/jobs_list.php", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingPage)
	})
	mux.HandleFunc("/jobdescription.php", func(w http.ResponseWriter, r *http.Request) {
		var id int
		if _, err := fmt.Sscanf(r.URL.Query().Get("job_id"), "%d", &id); err != nil || !validIDs[id] {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, detailPage(id))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Source: &config.SourceConfig{
			BaseURL:     baseURL,
			ListingPath: "/jobs_list.php",
			DetailPath:  "/jobdescription.php?job_id=%d",
			UserAgent:   "jobharvest-test/1.0",
		},
		Scanner: &config.ScannerConfig{
			BatchSize:        4,
			InvalidThreshold: 5,
			ProbeTimeout:     5 * time.Second,
			BootstrapRetries: 1,
			BootstrapTimeout: 5 * time.Second,
			FallbackStartID:  1003,
		},
		Harvester: &config.HarvesterConfig{
			BatchSize:    4,
			FetchTimeout: 5 * time.Second,
		},
		Database: &config.DatabaseConfig{},
		Schedule: &config.ScheduleConfig{},
	}
}

func TestRunner_Scrape(t *testing.T) {
	server := fakeSite(t, map[int]bool{1003: true, 1002: true, 1000: true})
	runner := pipeline.NewRunner(testConfig(server.URL), logger.NewNoOp())

	output, stats, err := runner.Scrape(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, output)
	require.NotNil(t, stats)

	assert.Equal(t, 1003, stats.StartID)
	assert.Equal(t, 3, stats.Discovered)
	assert.Equal(t, 3, stats.Harvested)
	assert.Equal(t, 3, output.TotalJobs)
	require.Len(t, output.Jobs, 3)

	// Most recent first, gap at 1001 skipped.
	assert.Equal(t, "1003", output.Jobs[0].ExternalID)
	assert.Equal(t, "1002", output.Jobs[1].ExternalID)
	assert.Equal(t, "1000", output.Jobs[2].ExternalID)

	first := output.Jobs[0]
	assert.Equal(t, "Job 1003", first.Title)
	assert.Equal(t, "Test Org 1003", first.Organization)
	assert.Equal(t, "Mumbai", first.Location)
	assert.Equal(t, "31 Dec 2026", first.Deadline)
	assert.Equal(t, []string{"Education", "Health"}, first.Sectors)
	assert.Contains(t, first.Description, "Line one of the description.")
	assert.Contains(t, first.Description, "Line two of the description.")
	assert.NotContains(t, first.Description, "Other Jobs You May Like")
	assert.Equal(t, server.URL+"/jobdescription.php?job_id=1003", first.OriginalURL)
	assert.False(t, output.ScrapedAt.IsZero())
}

func TestRunner_Scrape_Limit(t *testing.T) {
	server := fakeSite(t, map[int]bool{1003: true, 1002: true, 1000: true})
	runner := pipeline.NewRunner(testConfig(server.URL), logger.NewNoOp())

	output, stats, err := runner.Scrape(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Discovered)
	require.Len(t, output.Jobs, 2)
	assert.Equal(t, "1003", output.Jobs[0].ExternalID)
	assert.Equal(t, "1002", output.Jobs[1].ExternalID)
}

func TestRunner_Scrape_FallbackStart(t *testing.T) {
	// Listing page is unreachable, so discovery falls back to the
	// configured start id, and the scan still finds the valid pages.
	server := fakeSite(t, map[int]bool{1002: true})
	cfg := testConfig(server.URL)
	cfg.Source.ListingPath = "/missing_listing.php"

	runner := pipeline.NewRunner(cfg, logger.NewNoOp())

	output, stats, err := runner.Scrape(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1003, stats.StartID)
	require.Len(t, output.Jobs, 1)
	assert.Equal(t, "1002", output.Jobs[0].ExternalID)
}

package harvester_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/fetcher"
	"github.com/devjobshq/jobharvest/internal/harvester"
	"github.com/devjobshq/jobharvest/internal/logger"
	"github.com/devjobshq/jobharvest/internal/parser"
)

const (
	testBaseURL    = "https://example.org"
	testDetailPath = "/jobdescription.php?job_id=%d"
)

// siteFetcher serves generated detail pages, failing or panicking for
// designated ids.
type siteFetcher struct {
	failing   map[int]bool
	panicking map[int]bool
}

func (f *siteFetcher) Fetch(_ context.Context, pageURL string) (*fetcher.Page, error) {
	var id int
	if _, err := fmt.Sscanf(pageURL, testBaseURL+testDetailPath, &id); err != nil {
		return nil, fmt.Errorf("unexpected url %s", pageURL)
	}

	if f.panicking[id] {
		panic("fetcher blew up")
	}
	if f.failing[id] {
		return nil, errors.New("connection reset")
	}

	html := fmt.Sprintf(`<html><body>
		<h1>Job %d</h1>
		<div>Organization: Org %d</div>
	</body></html>`, id, id)

	return fetcher.NewPageFromHTML(pageURL, html)
}

func newHarvester(t *testing.T, f fetcher.Interface, batchSize int) *harvester.Harvester {
	t.Helper()

	return harvester.New(f, parser.New(logger.NewNoOp()), harvester.Config{
		BatchSize:    batchSize,
		FetchTimeout: time.Second,
		BaseURL:      testBaseURL,
		DetailPath:   testDetailPath,
	}, logger.NewNoOp())
}

func externalIDs(jobs []domain.Job) []string {
	ids := make([]string, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ExternalID
	}
	return ids
}

func TestHarvest_PreservesIdentifierOrder(t *testing.T) {
	h := newHarvester(t, &siteFetcher{}, 3)

	out, err := h.Harvest(context.Background(), []int{10, 9, 8, 7, 6, 5, 4})
	require.NoError(t, err)

	assert.Equal(t, 7, out.TotalJobs)
	assert.Equal(t, []string{"10", "9", "8", "7", "6", "5", "4"}, externalIDs(out.Jobs))
	assert.False(t, out.ScrapedAt.IsZero())
}

func TestHarvest_FaultingItemIsIsolated(t *testing.T) {
	h := newHarvester(t, &siteFetcher{failing: map[int]bool{8: true}}, 5)

	out, err := h.Harvest(context.Background(), []int{10, 9, 8, 7, 6})
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalJobs)
	assert.Equal(t, []string{"10", "9", "7", "6"}, externalIDs(out.Jobs))
	assert.NotContains(t, externalIDs(out.Jobs), "8")
}

func TestHarvest_PanicIsContainedAtItemBoundary(t *testing.T) {
	h := newHarvester(t, &siteFetcher{panicking: map[int]bool{9: true}}, 5)

	out, err := h.Harvest(context.Background(), []int{10, 9, 8})
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "8"}, externalIDs(out.Jobs))
}

func TestHarvest_EmptyInput(t *testing.T) {
	h := newHarvester(t, &siteFetcher{}, 5)

	out, err := h.Harvest(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, out.TotalJobs)
	assert.Empty(t, out.Jobs)
}

func TestHarvest_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarvester(t, &siteFetcher{}, 5)

	_, err := h.Harvest(ctx, []int{10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHarvest_RecordFieldsExtracted(t *testing.T) {
	h := newHarvester(t, &siteFetcher{}, 2)

	out, err := h.Harvest(context.Background(), []int{42})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)

	job := out.Jobs[0]
	assert.Equal(t, "Job 42", job.Title)
	assert.Equal(t, "Org 42", job.Organization)
	assert.Equal(t, domain.DefaultLocation, job.Location)
	assert.Equal(t, fmt.Sprintf(testBaseURL+testDetailPath, 42), job.OriginalURL)
}

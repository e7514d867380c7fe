package scanner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devjobshq/jobharvest/internal/fetcher"
	"github.com/devjobshq/jobharvest/internal/logger"
	"github.com/devjobshq/jobharvest/internal/scanner"
)

const listingHTML = `<!DOCTYPE html>
<html>
<body>
  <a href="#top">skip</a>
  <a href="/about.php">About</a>
  <a href="/jobdescription.php?job_id=4521">Programme Officer</a>
  <a href="/jobdescription.php?job_id=4519">Field Coordinator</a>
</body>
</html>`

// fakeFetcher serves canned pages keyed by URL.
type fakeFetcher struct {
	pages map[string]string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) (*fetcher.Page, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	html, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("not found")
	}

	return fetcher.NewPageFromHTML(pageURL, html)
}

func TestDiscoverStartID_FromListing(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://example.org/jobs_list.php": listingHTML,
	}}

	b := scanner.NewBootstrapper(
		f, "https://example.org", "/jobs_list.php", 3, time.Second, 1111, logger.NewNoOp(),
	)

	id := b.DiscoverStartID(context.Background())
	assert.Equal(t, 4521, id)
	assert.Equal(t, 1, f.calls)
}

func TestDiscoverStartID_FallbackOnFetchFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}

	b := scanner.NewBootstrapper(
		f, "https://example.org", "/jobs_list.php", 1, time.Second, 1111, logger.NewNoOp(),
	)

	id := b.DiscoverStartID(context.Background())
	assert.Equal(t, 1111, id)
}

func TestDiscoverStartID_FallbackWhenNoDetailLinks(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://example.org/jobs_list.php": `<html><body><a href="/about.php">About</a></body></html>`,
	}}

	b := scanner.NewBootstrapper(
		f, "https://example.org", "/jobs_list.php", 1, time.Second, 2222, logger.NewNoOp(),
	)

	id := b.DiscoverStartID(context.Background())
	assert.Equal(t, 2222, id)
}

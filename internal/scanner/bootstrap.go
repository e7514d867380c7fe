package scanner

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/fetcher"
	"github.com/devjobshq/jobharvest/internal/logger"
)

// bootstrapRetryDelay spaces out listing page retries.
const bootstrapRetryDelay = 2 * time.Second

// detailLinkID extracts the numeric identifier from a detail page href.
var detailLinkID = regexp.MustCompile(`job_id=(\d+)`)

// Bootstrapper discovers the most recent valid identifier by navigating
// the listing page and following the newest result link. Discovery is
// best-effort: after the retry budget it degrades to the configured
// fallback id rather than failing the pipeline.
type Bootstrapper struct {
	fetcher     fetcher.Interface
	log         logger.Interface
	baseURL     string
	listingPath string
	retries     int
	timeout     time.Duration
	fallbackID  int
}

// NewBootstrapper creates a start-id discoverer.
func NewBootstrapper(
	f fetcher.Interface,
	baseURL, listingPath string,
	retries int,
	timeout time.Duration,
	fallbackID int,
	log logger.Interface,
) *Bootstrapper {
	return &Bootstrapper{
		fetcher:     f,
		log:         log.WithComponent("bootstrap"),
		baseURL:     baseURL,
		listingPath: listingPath,
		retries:     retries,
		timeout:     timeout,
		fallbackID:  fallbackID,
	}
}

// DiscoverStartID returns the newest identifier advertised on the
// listing page, or the configured fallback when discovery fails.
func (b *Bootstrapper) DiscoverStartID(ctx context.Context) int {
	listingURL := domain.ListingURL(b.baseURL, b.listingPath)

	for attempt := 1; attempt <= b.retries; attempt++ {
		id, err := b.discoverOnce(ctx, listingURL)
		if err == nil {
			b.log.Info("start id discovered", "start_id", id, "attempt", attempt)
			return id
		}

		b.log.Warn("start id discovery attempt failed",
			"attempt", attempt,
			"error", err.Error(),
		)

		if attempt < b.retries && !sleepCtx(ctx, bootstrapRetryDelay) {
			break
		}
	}

	b.log.Warn("start id discovery exhausted, using fallback", "fallback_id", b.fallbackID)

	return b.fallbackID
}

// discoverOnce fetches the listing page and parses the first result link.
func (b *Bootstrapper) discoverOnce(ctx context.Context, listingURL string) (int, error) {
	navCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	page, err := b.fetcher.Fetch(navCtx, listingURL)
	if err != nil {
		return 0, err
	}

	for _, href := range page.Links() {
		if match := detailLinkID.FindStringSubmatch(href); match != nil {
			id, convErr := strconv.Atoi(match[1])
			if convErr != nil {
				continue
			}
			return id, nil
		}
	}

	return 0, errNoDetailLink
}

// sleepCtx waits for d or returns false if the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

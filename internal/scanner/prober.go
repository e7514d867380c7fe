package scanner

import (
	"context"
	"time"

	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/fetcher"
	"github.com/devjobshq/jobharvest/internal/logger"
)

// Validator applies the structural validity predicate to a fetched page.
type Validator interface {
	IsValid(page *fetcher.Page) bool
}

// PageProber probes an identifier by fetching its detail page and
// applying the validity predicate. Timeouts and fetch faults count as
// "not valid"; a probe never fails the scan.
type PageProber struct {
	fetcher    fetcher.Interface
	validator  Validator
	log        logger.Interface
	baseURL    string
	detailPath string
	timeout    time.Duration
}

// NewPageProber creates a prober for the configured source.
func NewPageProber(
	f fetcher.Interface,
	validator Validator,
	baseURL, detailPath string,
	timeout time.Duration,
	log logger.Interface,
) *PageProber {
	return &PageProber{
		fetcher:    f,
		validator:  validator,
		log:        log,
		baseURL:    baseURL,
		detailPath: detailPath,
		timeout:    timeout,
	}
}

// Probe reports whether the identifier names a live record.
func (p *PageProber) Probe(ctx context.Context, id int) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	page, err := p.fetcher.Fetch(probeCtx, domain.DetailURL(p.baseURL, p.detailPath, id))
	if err != nil {
		p.log.Debug("probe failed", "id", id, "error", err.Error())
		return false
	}

	return p.validator.IsValid(page)
}

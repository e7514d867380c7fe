// Package fetcher provides HTTP page fetching for the harvest pipeline.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/devjobshq/jobharvest/internal/logger"
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// ErrBadStatus is returned when the source answers with a non-success status.
var ErrBadStatus = errors.New("unexpected response status")

// Interface fetches a URL and returns the parsed page.
type Interface interface {
	Fetch(ctx context.Context, pageURL string) (*Page, error)
}

// Config configures a Client.
type Config struct {
	// Timeout bounds each request end to end.
	Timeout time.Duration
	// UserAgent is sent on every request. Empty means resty's default.
	UserAgent string
}

// Client fetches pages over HTTP. Each call issues an independent request;
// no page state is shared between concurrent fetches.
type Client struct {
	http *resty.Client
	log  logger.Interface
}

// NewClient creates a fetch client with the given configuration.
func NewClient(cfg Config, log logger.Interface) *Client {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{
		http: httpClient,
		log:  log,
	}
}

// Fetch retrieves pageURL and parses the response body. A non-2xx status
// or a transport fault is returned as an error; callers downgrade it to
// "invalid" at their own scope.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: %w: %s", pageURL, ErrBadStatus, resp.Status())
	}

	body := resp.Body()
	if len(body) > maxResponseBodyBytes {
		body = body[:maxResponseBodyBytes]
	}

	page, err := NewPage(pageURL, body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	c.log.Debug("fetched page", "url", pageURL, "bytes", len(body))

	return page, nil
}

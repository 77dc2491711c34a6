package jma

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/observability"
)

const userAgent = "amedas-etl/1.0"

// Client fetches JMA pages and feeds. Requests are never retried: a failure
// is returned as a *domain.FetchError and aborts the caller's job.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a JMA client with the given per-request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch returns the body of a 200 response.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	page := pageKind(url)
	start := time.Now()
	body, err := c.do(ctx, url)
	c.metrics.FetchDuration.WithLabelValues(page).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.PageFetches.WithLabelValues(page, "error").Inc()
		c.logger.Warn("fetch failed", "page", page, "url", url, "error", err)
		return nil, err
	}
	c.metrics.PageFetches.WithLabelValues(page, "success").Inc()
	c.logger.Debug("fetched", "page", page, "url", url, "bytes", len(body))
	return body, nil
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// pageKind labels a URL for metrics.
func pageKind(url string) string {
	switch {
	case strings.Contains(url, "/view/"):
		return "observation"
	case strings.Contains(url, "prefecture00.php"):
		return "selector"
	case strings.Contains(url, "prefecture.php"):
		return "prefecture"
	case strings.HasSuffix(url, ".json"):
		return "stations"
	default:
		return "other"
	}
}

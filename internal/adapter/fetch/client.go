package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/tidyviz/internal/observability"
)

// maxBodyBytes bounds a single download; the largest dataset is a few MB.
const maxBodyBytes = 64 << 20

// ErrNotFound is returned for a 404, e.g. a country without a flag asset.
var ErrNotFound = errors.New("remote resource not found")

// Fetcher downloads a remote resource.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Client downloads datasets and assets over HTTP.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an HTTP fetcher with a per-request timeout.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch GETs url and returns the body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	body, err := c.do(ctx, url)
	c.metrics.DatasetFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.DatasetFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.DatasetFetches.WithLabelValues("success").Inc()
	c.logger.Debug("fetched", "url", url, "bytes", len(body), "duration", time.Since(start))
	return body, nil
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetch %s: %w", url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

// FlagURL returns the circle-flags SVG location for a lowercase ISO2 code.
func FlagURL(base, iso2 string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + iso2 + ".svg"
}

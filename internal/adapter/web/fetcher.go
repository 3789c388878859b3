package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"twir-bot/internal/domain/ports"
)

const (
	userAgent    = "twir-bot/1.0 (+https://this-week-in-rust.org)"
	maxPageBytes = 8 << 20
)

// Fetcher downloads pages over HTTP.
type Fetcher struct {
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.PageFetcher = (*Fetcher)(nil)

// NewFetcher creates a Fetcher with the given request timeout.
func NewFetcher(timeout time.Duration, logger ports.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch returns the body of url as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if f.logger != nil {
		f.logger.Debug(ctx, "page fetched", "url", url, "bytes", len(body))
	}
	return string(body), nil
}

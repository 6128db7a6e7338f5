package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
	"readscore/internal/port"
)

// URLFetcher downloads a web page and extracts its article text with
// go-readability.
type URLFetcher struct {
	client      *http.Client
	maxBodySize int64
	userAgent   string
}

func NewURLFetcher(timeout time.Duration, maxBodySize int64) *URLFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBodySize <= 0 {
		maxBodySize = 10 << 20
	}
	return &URLFetcher{
		client:      &http.Client{Timeout: timeout},
		maxBodySize: maxBodySize,
		userAgent:   "readscore/1.0",
	}
}

func (f *URLFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("invalid url %q: must be http or https", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > f.maxBodySize {
		return "", fmt.Errorf("response exceeds %d bytes", f.maxBodySize)
	}

	if resp.Request != nil && resp.Request.URL != nil {
		parsed = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}
	if article.TextContent == "" {
		slog.DebugContext(ctx, "readability found no article, using page text",
			slog.String("url", rawURL))
		return HTMLText(body)
	}

	return article.TextContent, nil
}

var _ port.TextFetcher = (*URLFetcher)(nil)

package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultAttempts = 3
	defaultDelay    = time.Second
)

// Fetcher performs a bounded-retry GET: a fixed number of attempts with a
// fixed (not exponential) delay between them. A non-2xx status counts as a
// failed attempt.
type Fetcher struct {
	Client    *http.Client
	Attempts  int
	Delay     time.Duration
	UserAgent string
}

func (f *Fetcher) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	attempts := f.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := f.Delay
	if delay <= 0 {
		delay = defaultDelay
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}
		doc, err := f.getOnce(ctx, client, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fetch %s after %d attempts: %w", url, attempts, lastErr)
}

func (f *Fetcher) getOnce(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// Package ingestion is the upstream collaborator of the recommendation core:
// it fetches raw articles from a remote JSON source, and assembles fetched
// articles plus externally-computed embeddings and term scores into the
// finalized corpus the engine is populated with.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Article is one raw fetched article, before embedding and lexical scoring.
type Article struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}

// FetcherOptions configures the article fetcher.
type FetcherOptions struct {
	// Concurrency bounds the number of in-flight requests.
	Concurrency int

	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond float64

	// MaxRetries is the number of retries after a rate-limited or failed
	// request before giving up on that URL.
	MaxRetries int

	// BaseBackoff is the first retry delay; it doubles per attempt.
	BaseBackoff time.Duration

	// HTTPClient allows tests to inject a client.
	HTTPClient *http.Client
}

// Fetcher downloads articles with bounded concurrency, client-side rate
// limiting, and exponential backoff on rate-limiting (429) and server (5xx)
// responses.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	concurrency int
	maxRetries  int
	baseBackoff time.Duration
}

// NewFetcher creates a Fetcher with sensible defaults: 4 concurrent
// requests, 5 requests/second, 3 retries starting at 250ms.
func NewFetcher(optFns ...func(o *FetcherOptions)) *Fetcher {
	opts := FetcherOptions{
		Concurrency:       4,
		RequestsPerSecond: 5,
		MaxRetries:        3,
		BaseBackoff:       250 * time.Millisecond,
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Fetcher{
		client:      opts.HTTPClient,
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		concurrency: opts.Concurrency,
		maxRetries:  opts.MaxRetries,
		baseBackoff: opts.BaseBackoff,
	}
}

// FetchAll downloads every URL and returns the articles in the order of the
// input URLs. The first unrecoverable failure cancels the remaining fetches.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]Article, error) {
	articles := make([]Article, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			article, err := f.Fetch(ctx, url)
			if err != nil {
				return err
			}
			articles[i] = article
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return articles, nil
}

// Fetch downloads a single article, retrying on 429 and 5xx responses.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Article, error) {
	backoff := f.baseBackoff

	for attempt := 0; ; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return Article{}, err
		}

		article, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return article, nil
		}
		if !retryable || attempt >= f.maxRetries {
			return Article{}, fmt.Errorf("failed to fetch %s: %w", url, err)
		}

		select {
		case <-ctx.Done():
			return Article{}, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (Article, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Article{}, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Article{}, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Article{}, true, fmt.Errorf("unexpected status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Article{}, false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var article Article
	if err := json.NewDecoder(resp.Body).Decode(&article); err != nil {
		return Article{}, false, fmt.Errorf("failed to decode article: %w", err)
	}
	return article, false, nil
}

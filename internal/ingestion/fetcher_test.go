package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastFetcher(client *http.Client) *Fetcher {
	return NewFetcher(func(o *FetcherOptions) {
		o.HTTPClient = client
		o.RequestsPerSecond = 1000
		o.BaseBackoff = time.Millisecond
	})
}

func TestFetchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Article{
			Title: "Article " + r.URL.Path,
			URL:   r.URL.Path,
			Body:  "body",
		})
	}))
	defer server.Close()

	f := fastFetcher(server.Client())

	urls := []string{server.URL + "/1", server.URL + "/2", server.URL + "/3"}
	articles, err := f.FetchAll(context.Background(), urls)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(articles))
	}
	// Results keep input order regardless of completion order.
	for i, article := range articles {
		want := fmt.Sprintf("Article /%d", i+1)
		if article.Title != want {
			t.Errorf("Article %d: expected title %q, got %q", i, want, article.Title)
		}
	}
}

func TestFetchRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(Article{Title: "Eventually", URL: r.URL.Path})
	}))
	defer server.Close()

	f := fastFetcher(server.Client())

	article, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if article.Title != "Eventually" {
		t.Errorf("Expected title 'Eventually', got %q", article.Title)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Expected 3 attempts (2 rate-limited), got %d", got)
	}
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := fastFetcher(server.Client())

	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error after exhausting retries, got nil")
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := fastFetcher(server.Client())

	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected a single attempt for 404, got %d", got)
	}
}

package crawl_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/locator"
	"github.com/fwojciec/locator/crawl"
	"github.com/fwojciec/locator/goquery"
	"github.com/fwojciec/locator/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pages serves the given HTML by URL and answers 404 for anything else.
func pages(html map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			page, ok := html[url]
			if !ok {
				return "", &locator.FetchError{URL: url, StatusCode: http.StatusNotFound}
			}
			return page, nil
		},
	}
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("fetches parses and extracts", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Fetcher: pages(map[string]string{"https://example.com/": `<div id="main"></div>`}),
			Parser:  goquery.NewParser(),
		}

		var last float64
		set, err := s.Scrape(context.Background(), "https://example.com/", func(f float64) { last = f })

		require.NoError(t, err)
		assert.Equal(t, []locator.Record{{Locator: "main", Element: "div"}}, set.Records(locator.CategoryID))
		assert.InDelta(t, 1.0, last, 1e-9)
	})

	t.Run("returns fetch errors unchanged", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Fetcher:     pages(nil),
			Parser:      goquery.NewParser(),
			RetryDelays: []time.Duration{0, 0},
		}

		_, err := s.Scrape(context.Background(), "https://example.com/missing", nil)

		var fetchErr *locator.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.Equal(t, "https://example.com/missing", fetchErr.URL)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		s := &crawl.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					if calls.Add(1) == 1 {
						return "", &locator.FetchError{StatusCode: http.StatusServiceUnavailable}
					}
					return `<p name="x"></p>`, nil
				},
			},
			Parser:      goquery.NewParser(),
			RetryDelays: []time.Duration{0},
		}

		set, err := s.Scrape(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
		assert.Len(t, set.Records(locator.CategoryName), 1)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("returns parser errors", func(t *testing.T) {
		t.Parallel()

		parseErr := errors.New("bad markup")
		s := &crawl.Scraper{
			Fetcher: pages(map[string]string{"a.html": "<p>"}),
			Parser: &mock.Parser{
				ParseFn: func(string) (locator.Node, error) { return nil, parseErr },
			},
		}

		_, err := s.Scrape(context.Background(), "a.html", nil)

		assert.Equal(t, parseErr, err)
	})

	t.Run("rate limits web sources by host", func(t *testing.T) {
		t.Parallel()

		var domains []string
		s := &crawl.Scraper{
			Fetcher: pages(map[string]string{"https://example.com/a": "", "page.html": ""}),
			Parser:  goquery.NewParser(),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					domains = append(domains, domain)
					return nil
				},
			},
		}

		_, err := s.Scrape(context.Background(), "https://example.com/a", nil)
		require.NoError(t, err)
		_, err = s.Scrape(context.Background(), "page.html", nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"example.com"}, domains)
	})
}

func TestScraper_ScrapeAll(t *testing.T) {
	t.Parallel()

	t.Run("returns results in input order", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Fetcher: pages(map[string]string{
				"a": `<p id="a"></p>`,
				"b": `<p id="b"></p>`,
				"c": `<p id="c"></p>`,
			}),
			Parser:      goquery.NewParser(),
			Concurrency: 2,
		}

		results, err := s.ScrapeAll(context.Background(), []string{"c", "a", "b"}, nil)

		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, want := range []string{"c", "a", "b"} {
			assert.Equal(t, want, results[i].Source)
			require.NoError(t, results[i].Err)
			assert.Equal(t, want, results[i].Locators.Records(locator.CategoryID)[0].Locator)
		}
	})

	t.Run("records failures without stopping the batch", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Scraper{
			Fetcher:     pages(map[string]string{"ok": `<a href="/">x</a>`}),
			Parser:      goquery.NewParser(),
			RetryDelays: []time.Duration{},
		}

		results, err := s.ScrapeAll(context.Background(), []string{"missing", "ok"}, nil)

		require.NoError(t, err)
		assert.Equal(t, locator.EFETCH, locator.ErrorCode(results[0].Err))
		assert.Nil(t, results[0].Locators)
		require.NoError(t, results[1].Err)
		assert.Len(t, results[1].Locators.Records(locator.CategoryLinks), 1)
	})

	t.Run("limits concurrency", func(t *testing.T) {
		t.Parallel()

		var active, peak atomic.Int32
		s := &crawl.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					n := active.Add(1)
					defer active.Add(-1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					return "", nil
				},
			},
			Parser:      goquery.NewParser(),
			Concurrency: 2,
		}

		_, err := s.ScrapeAll(context.Background(), []string{"1", "2", "3", "4", "5"}, nil)

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("reports progress per source", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		done := map[string]bool{}
		s := &crawl.Scraper{
			Fetcher: pages(map[string]string{"a": "<p></p>", "b": "<p></p>"}),
			Parser:  goquery.NewParser(),
		}

		_, err := s.ScrapeAll(context.Background(), []string{"a", "b"}, func(source string, f float64) {
			mu.Lock()
			defer mu.Unlock()
			if f == 1.0 {
				done[source] = true
			}
		})

		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"a": true, "b": true}, done)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := &crawl.Scraper{
			Fetcher: pages(map[string]string{"a": "<p></p>"}),
			Parser:  goquery.NewParser(),
		}

		results, err := s.ScrapeAll(ctx, []string{"a"}, nil)

		require.ErrorIs(t, err, context.Canceled)
		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, context.Canceled)
	})
}

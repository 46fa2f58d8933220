// Package crawl fetches pages and extracts their locators, one page or
// many at a time.
package crawl

import (
	"context"
	"net/url"
	"time"

	"github.com/fwojciec/locator"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages scraped at once by ScrapeAll.
const DefaultConcurrency = 3

// ProgressFunc receives extraction progress for one source.
type ProgressFunc func(source string, fraction float64)

// Scraper runs fetch, parse and extract for each source.
type Scraper struct {
	Fetcher     locator.Fetcher
	Parser      locator.Parser
	RateLimiter locator.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      LogFunc
}

// Scrape extracts the locators of a single source.
// Fetch failures are retried per RetryDelays and then returned as is.
func (s *Scraper) Scrape(ctx context.Context, source string, progress locator.ProgressFunc) (*locator.Set, error) {
	if err := s.wait(ctx, source); err != nil {
		return nil, err
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, source, s.Fetcher.Fetch, s.Logger, delays)
	if err != nil {
		return nil, err
	}

	root, err := s.Parser.Parse(html)
	if err != nil {
		return nil, err
	}

	return locator.Extract(ctx, root, progress)
}

// ScrapeAll scrapes every source, Concurrency at a time, and returns one
// result per source in input order. A failing source is recorded in its
// Result and does not stop the others. The returned error is only set
// when ctx ends before all sources are done. progress may be called from
// several goroutines at once.
func (s *Scraper) ScrapeAll(ctx context.Context, sources []string, progress ProgressFunc) ([]*locator.Result, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*locator.Result, len(sources))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, source := range sources {
		g.Go(func() error {
			var report locator.ProgressFunc
			if progress != nil {
				report = func(f float64) { progress(source, f) }
			}
			set, err := s.Scrape(ctx, source, report)
			results[i] = &locator.Result{Source: source, Locators: set, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}

// wait applies the per-domain rate limit to web sources.
func (s *Scraper) wait(ctx context.Context, source string) error {
	if s.RateLimiter == nil {
		return nil
	}
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return nil
	}
	return s.RateLimiter.Wait(ctx, u.Host)
}

package main

import (
	"context"
	"errors"
	"strings"

	"github.com/fwojciec/locator"
)

// Ensure SourceFetcher implements locator.Fetcher at compile time.
var _ locator.Fetcher = (*SourceFetcher)(nil)

// SourceFetcher sends http(s) URLs to Web and everything else to Files.
type SourceFetcher struct {
	Web   locator.Fetcher
	Files locator.Fetcher
}

// Fetch delegates to the fetcher serving the source.
func (f *SourceFetcher) Fetch(ctx context.Context, source string) (string, error) {
	if !isWebSource(source) {
		return f.Files.Fetch(ctx, source)
	}
	if f.Web == nil {
		return "", locator.Errorf(locator.EINVALID, "no web fetcher for %q", source)
	}
	return f.Web.Fetch(ctx, source)
}

// Close closes both fetchers.
func (f *SourceFetcher) Close() error {
	var errs []error
	for _, fetcher := range []locator.Fetcher{f.Web, f.Files} {
		if fetcher != nil {
			errs = append(errs, fetcher.Close())
		}
	}
	return errors.Join(errs...)
}

func isWebSource(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func hasWebSource(sources []string) bool {
	for _, s := range sources {
		if isWebSource(s) {
			return true
		}
	}
	return false
}

// Package rod provides a headless Chrome implementation of locator.Fetcher
// for pages whose elements are rendered by JavaScript.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/locator"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultFetchTimeout bounds a single page fetch, including rendering.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements locator.Fetcher at compile time.
var _ locator.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	timeout     time.Duration
	renderDelay time.Duration
	maxPages    int64
	stealth     bool
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRenderDelay waits the given time after the load event so that
// asynchronously rendered elements are present in the captured HTML.
func WithRenderDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.renderDelay = d
	}
}

// WithBrowserMaxPages sets how many pages the browser serves before it is
// recycled. Defaults to DefaultMaxPages.
func WithBrowserMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithStealth opens pages with the stealth evasions applied, for sites that
// serve different markup to detected headless browsers.
func WithStealth(enabled bool) Option {
	return func(f *Fetcher) {
		f.stealth = enabled
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML, including the
// contents of open shadow roots.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", locator.Errorf(locator.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.newPage(f.manager.Browser())
	if err != nil {
		return "", &locator.FetchError{URL: url, Err: err}
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", &locator.FetchError{URL: url, Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return "", &locator.FetchError{URL: url, Err: err}
	}

	if delay := f.renderDelay; delay > 0 {
		select {
		case <-ctx.Done():
			return "", &locator.FetchError{URL: url, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}

	obj, err := page.Eval(serializeJS)
	if err != nil {
		html, htmlErr := page.HTML()
		if htmlErr != nil {
			return "", &locator.FetchError{URL: url, Err: htmlErr}
		}
		return html, nil
	}

	return "<!DOCTYPE html>" + obj.Value.Str(), nil
}

// serializeJS returns the document with open shadow roots inlined, which
// page.HTML() leaves out. getHTML only covers the children of the root
// element, so the html start tag is rebuilt from its attributes.
const serializeJS = `() => {
	const root = document.documentElement;
	const attrs = Array.from(root.attributes)
		.map(a => ' ' + a.name + '="' + a.value.replace(/&/g, '&amp;').replace(/"/g, '&quot;') + '"')
		.join('');
	const inner = root.getHTML({
		serializableShadowRoots: true,
		shadowRoots: Array.from(document.querySelectorAll('*')).map(e => e.shadowRoot).filter(Boolean),
	});
	return '<html' + attrs + '>' + inner + '</html>';
}`

func (f *Fetcher) newPage(b *rod.Browser) (*rod.Page, error) {
	if f.stealth {
		return stealth.Page(b)
	}
	return b.Page(proto.TargetCreateTarget{})
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

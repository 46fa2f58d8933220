package crawl

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/locator"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays fetches a URL, retrying after each of the given
// delays on failure. One attempt is made per delay plus the initial one. Errors that another
// attempt cannot fix are returned immediately; see Retryable.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !Retryable(err) {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}

// Retryable reports whether a failed fetch may succeed when repeated.
// Cancellation, missing files and client errors other than 408 and 429
// are final.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	switch locator.ErrorCode(err) {
	case locator.ENOTFOUND, locator.EINVALID:
		return false
	}
	var fe *locator.FetchError
	if errors.As(err, &fe) && fe.StatusCode >= 400 && fe.StatusCode < 500 {
		return fe.StatusCode == http.StatusRequestTimeout || fe.StatusCode == http.StatusTooManyRequests
	}
	return true
}

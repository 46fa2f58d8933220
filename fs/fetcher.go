package fs

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/locator"
)

// Ensure Fetcher implements locator.Fetcher at compile time.
var _ locator.Fetcher = (*Fetcher)(nil)

// Fetcher reads HTML from local files, so saved pages can be inspected
// without a network. The path "-" reads from Stdin; file:// URLs are
// accepted as well.
type Fetcher struct {
	Stdin io.Reader
}

// NewFetcher creates a new Fetcher reading "-" from os.Stdin.
func NewFetcher() *Fetcher {
	return &Fetcher{Stdin: os.Stdin}
}

// Fetch returns the contents of the file at path.
func (f *Fetcher) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if path == "-" {
		data, err := io.ReadAll(f.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(strings.TrimPrefix(path, "file://"))
	if os.IsNotExist(err) {
		return "", locator.Errorf(locator.ENOTFOUND, "file %q not found", path)
	} else if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close is a no-op.
func (f *Fetcher) Close() error {
	return nil
}

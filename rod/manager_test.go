//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/locator/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Browser(t *testing.T) {
	t.Parallel()

	t.Run("recycles after the page budget is spent", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		manager.IncrementPageCount()
		manager.IncrementPageCount()

		assert.NotSame(t, first, manager.Browser())
	})

	t.Run("keeps the browser below the budget", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		manager.IncrementPageCount()

		assert.Same(t, first, manager.Browser())
	})
}

package slog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/locator"
	"github.com/fwojciec/locator/goquery"
	"github.com/fwojciec/locator/mock"
	locslog "github.com/fwojciec/locator/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("logs element count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		parser := locslog.NewLoggingParser(goquery.NewParser(), logger)
		root, err := parser.Parse(`<form><input name="q"><button>Go</button></form>`)

		require.NoError(t, err)
		assert.Len(t, locator.Elements(root), 3)
		output := buf.String()
		assert.Contains(t, output, "msg=parse")
		assert.Contains(t, output, "bytes=48")
		assert.Contains(t, output, "elements=3")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(string) (locator.Node, error) {
				return nil, errors.New("unexpected EOF")
			},
		}

		parser := locslog.NewLoggingParser(inner, logger)
		_, err := parser.Parse("<p")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "elements=0")
		assert.Contains(t, output, "err=\"unexpected EOF\"")
	})
}

package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/locator"
)

// Ensure LoggingParser implements locator.Parser.
var _ locator.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging of document size.
type LoggingParser struct {
	next   locator.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next locator.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the element count.
func (p *LoggingParser) Parse(html string) (root locator.Node, err error) {
	defer func(begin time.Time) {
		var elements int
		if root != nil {
			elements = len(locator.Elements(root))
		}
		p.logger.Info("parse",
			"bytes", len(html),
			"elements", elements,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(html)
}

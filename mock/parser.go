package mock

import "github.com/fwojciec/locator"

var _ locator.Parser = (*Parser)(nil)

// Parser is a mock implementation of locator.Parser.
type Parser struct {
	ParseFn func(html string) (locator.Node, error)
}

func (p *Parser) Parse(html string) (locator.Node, error) {
	return p.ParseFn(html)
}

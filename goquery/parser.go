// Package goquery parses HTML into locator.Node trees using goquery and
// golang.org/x/net/html.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/locator"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Parser implements locator.Parser at compile time.
var _ locator.Parser = (*Parser)(nil)

// Parser builds document trees from HTML.
//
// Complete documents are parsed as such. Fragments are parsed in a body
// context and hung directly under a synthetic document root, so no implied
// html, head or body elements show up in the tree.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the document root of the parsed markup.
func (p *Parser) Parse(markup string) (locator.Node, error) {
	if isDocument(markup) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
		if err != nil {
			return nil, locator.Errorf(locator.EINVALID, "failed to parse HTML: %v", err)
		}
		return NewNode(doc.Nodes[0]), nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, locator.Errorf(locator.EINVALID, "failed to parse HTML fragment: %v", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return NewNode(root), nil
}

// isDocument reports whether markup carries its own document structure: its
// first significant token is a doctype or an html, head or body start tag.
// Leading comments and whitespace are skipped; anything else means a fragment.
func isDocument(markup string) bool {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.DoctypeToken:
			return true
		case html.CommentToken:
			continue
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) == "" {
				continue
			}
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "html", "head", "body":
				return true
			}
			return false
		default:
			return false
		}
	}
}

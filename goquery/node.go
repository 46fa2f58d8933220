package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/locator"
	"golang.org/x/net/html"
)

// Ensure Node implements locator.Node at compile time.
var _ locator.Node = Node{}

// Node adapts an *html.Node to locator.Node. Two Nodes are equal when they
// wrap the same underlying node.
type Node struct {
	n *html.Node
}

// NewNode wraps n.
func NewNode(n *html.Node) Node {
	return Node{n: n}
}

func (n Node) TagName() string {
	if n.n.Type != html.ElementNode {
		return ""
	}
	return n.n.Data
}

func (n Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

func (n Node) Attribute(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (n Node) Text() string {
	return goquery.NewDocumentFromNode(n.n).Text()
}

// Parent returns nil at the document root.
func (n Node) Parent() locator.Node {
	if n.n.Parent == nil {
		return nil
	}
	return Node{n: n.n.Parent}
}

func (n Node) Children() []locator.Node {
	var children []locator.Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, Node{n: c})
		}
	}
	return children
}

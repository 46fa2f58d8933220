package locator

// Node is a read-only view of an element in a parsed HTML document.
// Implementations must be comparable with == so siblings can be told apart;
// pointers or small structs wrapping a pointer both work.
type Node interface {
	// TagName returns the lowercase tag name. Empty for the document root.
	TagName() string

	// HasAttribute reports whether the attribute is present, even if empty.
	HasAttribute(name string) bool

	// Attribute returns the attribute value and whether it is present.
	Attribute(name string) (string, bool)

	// Text returns the concatenated text of all descendants.
	Text() string

	// Parent returns the parent node, or nil for the document root.
	Parent() Node

	// Children returns the element children in document order.
	Children() []Node
}

// Parser turns raw HTML into a document tree.
type Parser interface {
	// Parse returns the synthetic document root of the parsed markup.
	Parse(html string) (Node, error)
}

// Elements returns every element below root in document order.
// The root itself is not included.
func Elements(root Node) []Node {
	var elements []Node
	var walk func(n Node)
	walk = func(n Node) {
		for _, child := range n.Children() {
			elements = append(elements, child)
			walk(child)
		}
	}
	walk(root)
	return elements
}

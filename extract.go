package locator

import (
	"context"
	"strings"
	"unicode/utf8"
)

// ProgressFunc receives the completed fraction of an extraction, in [0, 1].
type ProgressFunc func(fraction float64)

// maxLinkText is the number of link text characters kept in a link descriptor.
const maxLinkText = 50

// accessibilityAttrs are swept in this order, each over the whole document.
var accessibilityAttrs = []string{"aria-label", "aria-describedby", "aria-labelledby", "role", "alt"}

// buttonInputTypes are the input types treated as buttons.
var buttonInputTypes = map[string]bool{"submit": true, "button": true, "reset": true}

// element is a Node paired with its 1-based document position.
type element struct {
	Node
	index int
}

// sweep fills one category of the set.
type sweep func(elements []element, set *Set)

// sweeps run in category order.
var sweeps = []sweep{
	attributeSweep(CategoryID, "id", true),
	attributeSweep(CategoryName, "name", false),
	attributeSweep(CategoryTestID, "data-testid", false),
	sweepLinks,
	sweepButtons,
	sweepClassNames,
	sweepAccessibility,
	sweepCSS,
	sweepXPath,
}

// Extract runs every locator sweep over the document rooted at root.
//
// Progress is reported after each sweep (0.1 through 0.9) and once more
// with 1.0 when the set is complete. The context is checked between sweeps;
// on cancellation no partial result is returned. Malformed elements are
// skipped and listed in Set.Skipped.
func Extract(ctx context.Context, root Node, progress ProgressFunc) (*Set, error) {
	if progress == nil {
		progress = func(float64) {}
	}

	set := NewSet()
	elements := collect(root, set)

	for i, run := range sweeps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run(elements, set)
		progress(float64(i+1) / 10)
	}

	progress(1.0)
	return set, nil
}

// collect flattens the tree in document order. Elements without a tag name
// are reported once and left out of every sweep, though their children
// are still visited.
func collect(root Node, set *Set) []element {
	nodes := Elements(root)
	elements := make([]element, 0, len(nodes))
	for i, n := range nodes {
		if n.TagName() == "" {
			set.Skipped = append(set.Skipped, &MalformedElementError{
				Index:  i + 1,
				Reason: "missing tag name",
			})
			continue
		}
		elements = append(elements, element{Node: n, index: i + 1})
	}
	return elements
}

func attributeSweep(c Category, attr string, requireValue bool) sweep {
	return func(elements []element, set *Set) {
		for _, el := range elements {
			value, ok := el.Attribute(attr)
			if !ok || (requireValue && value == "") {
				continue
			}
			set.Add(c, Record{Locator: value, Element: el.TagName()})
		}
	}
}

func sweepLinks(elements []element, set *Set) {
	for _, el := range elements {
		if el.TagName() != "a" {
			continue
		}
		href, ok := el.Attribute("href")
		if !ok {
			continue
		}
		set.Add(CategoryLinks, Record{Locator: href, Element: LinkDescriptor(el.Text())})
	}
}

// LinkDescriptor renders the element descriptor of a link from its text.
// Text longer than 50 characters is cut and marked with "...".
func LinkDescriptor(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > maxLinkText {
		text = string([]rune(text)[:maxLinkText]) + "..."
	}
	return "a[text='" + text + "']"
}

func sweepButtons(elements []element, set *Set) {
	for _, el := range elements {
		switch el.TagName() {
		case "button":
			set.Add(CategoryButtons, Record{
				Locator: firstNonEmpty(strings.TrimSpace(el.Text()), attr(el, "id"), attr(el, "name")),
				Element: "button",
			})
		case "input":
			typ, ok := el.Attribute("type")
			if !ok || !buttonInputTypes[strings.ToLower(typ)] {
				continue
			}
			set.Add(CategoryButtons, Record{
				Locator: firstNonEmpty(attr(el, "value"), attr(el, "name"), attr(el, "id")),
				Element: "input[type='" + typ + "']",
			})
		}
	}
}

func sweepClassNames(elements []element, set *Set) {
	for _, el := range elements {
		for _, class := range classes(el) {
			set.Add(CategoryClassNames, Record{Locator: class, Element: el.TagName()})
		}
	}
}

func sweepAccessibility(elements []element, set *Set) {
	for _, name := range accessibilityAttrs {
		for _, el := range elements {
			value, ok := el.Attribute(name)
			if !ok {
				continue
			}
			set.Add(CategoryAccessibility, Record{
				Locator: name + "='" + value + "'",
				Element: el.TagName(),
			})
		}
	}
}

// sweepCSS emits tag.firstClass for every element with a class attribute.
// An attribute with no class tokens has no first class and is malformed.
func sweepCSS(elements []element, set *Set) {
	for _, el := range elements {
		if !el.HasAttribute("class") {
			continue
		}
		tokens := classes(el)
		if len(tokens) == 0 {
			set.Skipped = append(set.Skipped, &MalformedElementError{
				Index:    el.index,
				Tag:      el.TagName(),
				Category: CategoryCSS,
				Reason:   "class attribute has no class names",
			})
			continue
		}
		set.Add(CategoryCSS, Record{Locator: el.TagName() + "." + tokens[0], Element: el.TagName()})
	}
}

func sweepXPath(elements []element, set *Set) {
	for _, el := range elements {
		path, err := XPath(el.Node)
		if err != nil {
			set.Skipped = append(set.Skipped, &MalformedElementError{
				Index:    el.index,
				Tag:      el.TagName(),
				Category: CategoryXPath,
				Reason:   err.Error(),
			})
			continue
		}
		if path == "" {
			continue
		}
		set.Add(CategoryXPath, Record{Locator: path, Element: el.TagName()})
	}
}

func classes(n Node) []string {
	value, _ := n.Attribute("class")
	return strings.Fields(value)
}

func attr(n Node, name string) string {
	value, _ := n.Attribute(name)
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

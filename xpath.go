package locator

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

var errNotChild = errors.New("element is not among its parent's children")

// XPath builds an absolute positional path for n, such as
// //html/body/ul/li[2].
//
// Each step is the tag name, indexed when the parent has more than one
// child with that tag. The walk ends below the document root, which has no
// step of its own. A node without a parent yields an empty path.
//
// Paths are structural: they break as soon as the page layout changes.
func XPath(n Node) (string, error) {
	var steps []string
	child := n
	for {
		parent := child.Parent()
		if parent == nil {
			break
		}
		step, err := xpathStep(child, parent)
		if err != nil {
			return "", err
		}
		steps = append(steps, step)
		if parent.Parent() == nil {
			break
		}
		child = parent
	}

	if len(steps) == 0 {
		return "", nil
	}
	slices.Reverse(steps)
	return "//" + strings.Join(steps, "/"), nil
}

// xpathStep renders child's step relative to its same-tag siblings.
func xpathStep(child, parent Node) (string, error) {
	tag := child.TagName()
	count, position := 0, 0
	for _, sibling := range parent.Children() {
		if sibling.TagName() != tag {
			continue
		}
		count++
		if sibling == child {
			position = count
		}
	}
	if position == 0 {
		return "", errNotChild
	}
	if count > 1 {
		return tag + "[" + strconv.Itoa(position) + "]", nil
	}
	return tag, nil
}

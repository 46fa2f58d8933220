package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/locator"
	"github.com/fwojciec/locator/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, markup string) locator.Node {
	t.Helper()
	root, err := goquery.NewParser().Parse(markup)
	require.NoError(t, err)
	return root
}

func tags(nodes []locator.Node) []string {
	var names []string
	for _, n := range nodes {
		names = append(names, n.TagName())
	}
	return names
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("keeps fragments free of implied elements", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<div id="main"><p>Hi</p></div>`)

		assert.Nil(t, root.Parent())
		assert.Equal(t, []string{"div", "p"}, tags(locator.Elements(root)))
	})

	t.Run("parses complete documents with html head and body", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<!DOCTYPE html><html><head><title>T</title></head><body><p>Hi</p></body></html>`)

		assert.Equal(t, []string{"html", "head", "title", "body", "p"}, tags(locator.Elements(root)))
	})

	t.Run("does not mistake header for head", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<header><h1>Title</h1></header>`)

		assert.Equal(t, []string{"header", "h1"}, tags(locator.Elements(root)))
	})

	t.Run("keeps a fragment whose script mentions body", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<div id="main"><script>var s = "<body>";</script><ul><li>A</li><li>B</li></ul></div>`)

		assert.Equal(t, []string{"div", "script", "ul", "li", "li"}, tags(locator.Elements(root)))
	})

	t.Run("keeps a fragment of custom elements named like html", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<html-widget id="w"><p>x</p></html-widget>`)

		assert.Equal(t, []string{"html-widget", "p"}, tags(locator.Elements(root)))
	})

	t.Run("parses a document preceded by a comment", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "\n<!-- saved page -->\n<!DOCTYPE html><html><body><p>Hi</p></body></html>")

		assert.Equal(t, []string{"html", "head", "body", "p"}, tags(locator.Elements(root)))
	})

	t.Run("returns an empty root for empty input", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "")

		assert.Empty(t, locator.Elements(root))
	})

	t.Run("ignores text and comment children", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<ul>text<!-- note --><li>a</li> <li>b</li></ul>`)

		ul := root.Children()[0]
		assert.Equal(t, []string{"li", "li"}, tags(ul.Children()))
	})
}

func TestNode(t *testing.T) {
	t.Parallel()

	t.Run("reads attributes", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<input name="q" disabled data-testid="">`)
		input := root.Children()[0]

		name, ok := input.Attribute("name")
		assert.True(t, ok)
		assert.Equal(t, "q", name)
		assert.True(t, input.HasAttribute("disabled"))
		assert.True(t, input.HasAttribute("data-testid"))
		assert.False(t, input.HasAttribute("id"))
	})

	t.Run("lowercases tag and attribute names", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<DIV ID="Main"></DIV>`)
		div := root.Children()[0]

		assert.Equal(t, "div", div.TagName())
		id, _ := div.Attribute("id")
		assert.Equal(t, "Main", id)
	})

	t.Run("concatenates descendant text", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<a href="/"> Go <b>home</b> </a>`)

		assert.Equal(t, " Go home ", root.Children()[0].Text())
	})

	t.Run("compares equal for the same underlying node", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<ul><li>a</li></ul>`)
		li := root.Children()[0].Children()[0]

		assert.True(t, li.Parent().Children()[0] == li)
	})
}

func TestExtract_EndToEnd(t *testing.T) {
	t.Parallel()

	t.Run("extracts locators from a fragment", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<div id="main"><ul><li class="item">A</li><li class="item">B</li></ul><a href="/x">Home</a></div>`)

		set, err := locator.Extract(context.Background(), root, nil)

		require.NoError(t, err)
		assert.Equal(t, []locator.Record{{Locator: "main", Element: "div"}}, set.Records(locator.CategoryID))
		assert.Equal(t, []locator.Record{
			{Locator: "item", Element: "li"},
			{Locator: "item", Element: "li"},
		}, set.Records(locator.CategoryClassNames))
		assert.Equal(t, []locator.Record{
			{Locator: "li.item", Element: "li"},
			{Locator: "li.item", Element: "li"},
		}, set.Records(locator.CategoryCSS))
		assert.Equal(t, []locator.Record{{Locator: "/x", Element: "a[text='Home']"}}, set.Records(locator.CategoryLinks))
		assert.Equal(t, []locator.Record{
			{Locator: "//div", Element: "div"},
			{Locator: "//div/ul", Element: "ul"},
			{Locator: "//div/ul/li[1]", Element: "li"},
			{Locator: "//div/ul/li[2]", Element: "li"},
			{Locator: "//div/a", Element: "a"},
		}, set.Records(locator.CategoryXPath))
		assert.Empty(t, set.Skipped)
	})

	t.Run("addresses list items in a complete document", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<html><body><ul><li>1</li><li>2</li><li>3</li></ul></body></html>`)

		set, err := locator.Extract(context.Background(), root, nil)

		require.NoError(t, err)
		var paths []string
		for _, r := range set.Records(locator.CategoryXPath) {
			paths = append(paths, r.Locator)
		}
		assert.Contains(t, paths, "//html/body/ul/li[2]")
		assert.Contains(t, paths, "//html/head")
	})

	t.Run("addresses a fragment with markup inside a script", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<div id="main"><script>var s = "<body>";</script><ul><li>A</li><li>B</li></ul></div>`)

		set, err := locator.Extract(context.Background(), root, nil)

		require.NoError(t, err)
		var paths []string
		for _, r := range set.Records(locator.CategoryXPath) {
			paths = append(paths, r.Locator)
		}
		assert.Contains(t, paths, "//div/ul/li[1]")
		assert.NotContains(t, paths, "//html")
	})

	t.Run("warns about a page without elements", func(t *testing.T) {
		t.Parallel()

		root := parse(t, "just text")

		set, err := locator.Extract(context.Background(), root, nil)

		require.NoError(t, err)
		assert.Len(t, set.Rows(), 0)
		assert.Equal(t, locator.EEMPTY, locator.ErrorCode(set.Err()))
	})

	t.Run("trims and truncates long link text", func(t *testing.T) {
		t.Parallel()

		root := parse(t, `<a href="/long">
			This link text is definitely longer than fifty characters in total
		</a>`)

		set, err := locator.Extract(context.Background(), root, nil)

		require.NoError(t, err)
		assert.Equal(t, []locator.Record{{
			Locator: "/long",
			Element: "a[text='This link text is definitely longer than fifty cha...']",
		}}, set.Records(locator.CategoryLinks))
	})
}

// Package yaml writes locator sets as YAML documents.
package yaml

import (
	"io"

	"github.com/fwojciec/locator"
	"gopkg.in/yaml.v3"
)

// Ensure FormatYAML is a locator.FormatFunc.
var _ locator.FormatFunc = FormatYAML

// FormatYAML writes results as YAML with the same shape as the JSON
// format: a single result is a mapping of category to records, several
// are a sequence of {source, locators} mappings. Categories keep their
// fixed order. Failed results are left out.
func FormatYAML(w io.Writer, results []*locator.Result) error {
	var ok []*locator.Result
	for _, r := range results {
		if r.Err == nil && r.Locators != nil {
			ok = append(ok, r)
		}
	}

	var doc *yaml.Node
	if len(ok) == 1 {
		doc = setNode(ok[0].Locators)
	} else {
		doc = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, r := range ok {
			doc.Content = append(doc.Content, mapping(
				str("source"), str(r.Source),
				str("locators"), setNode(r.Locators),
			))
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func setNode(set *locator.Set) *yaml.Node {
	m := mapping()
	for _, c := range locator.Categories() {
		records := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, r := range set.Records(c) {
			records.Content = append(records.Content, mapping(
				str("locator"), str(r.Locator),
				str("element"), str(r.Element),
			))
		}
		m.Content = append(m.Content, str(string(c)), records)
	}
	return m
}

func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: pairs}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// Package etree writes locator sets as XML documents.
package etree

import (
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/locator"
)

// Ensure FormatXML is a locator.FormatFunc.
var _ locator.FormatFunc = FormatXML

// FormatXML writes results as an indented XML document. Each result becomes
// a <locators> element holding one <category> per category in fixed order:
//
//	<locators source="page.html">
//	  <category name="ID">
//	    <locator element="div">main</locator>
//	  </category>
//	  ...
//	</locators>
//
// A single result is the document root; several are wrapped in <pages>.
// Failed results are left out.
func FormatXML(w io.Writer, results []*locator.Result) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	var ok []*locator.Result
	for _, r := range results {
		if r.Err == nil && r.Locators != nil {
			ok = append(ok, r)
		}
	}

	parent := &doc.Element
	if len(ok) != 1 {
		parent = doc.CreateElement("pages")
	}
	for _, r := range ok {
		writePage(parent, r)
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func writePage(parent *etree.Element, r *locator.Result) {
	page := parent.CreateElement("locators")
	page.CreateAttr("source", r.Source)
	for _, c := range locator.Categories() {
		category := page.CreateElement("category")
		category.CreateAttr("name", string(c))
		for _, rec := range r.Locators.Records(c) {
			el := category.CreateElement("locator")
			el.CreateAttr("element", rec.Element)
			el.SetText(rec.Locator)
		}
	}
}

package locator

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Result is the outcome of extracting locators from one source.
type Result struct {
	Source   string
	Locators *Set
	Err      error
}

// FormatFunc writes results in one output format.
type FormatFunc func(w io.Writer, results []*Result) error

// pageJSON is the JSON shape of a result when several sources are written.
type pageJSON struct {
	Source   string `json:"source"`
	Locators *Set   `json:"locators"`
}

// FormatJSON writes results as 2-space indented JSON. A single result is
// written as its category object; several are written as an array of
// {source, locators} objects. Failed results are left out.
func FormatJSON(w io.Writer, results []*Result) error {
	ok := succeeded(results)

	var v any
	if len(ok) == 1 {
		v = ok[0].Locators
	} else {
		pages := make([]pageJSON, 0, len(ok))
		for _, r := range ok {
			pages = append(pages, pageJSON{Source: r.Source, Locators: r.Locators})
		}
		v = pages
	}

	data, err := marshalJSON(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// FormatCSV writes results as CSV with a Type,Locator,Element header.
// When several sources are written a leading Source column is added.
// Failed results are left out.
func FormatCSV(w io.Writer, results []*Result) error {
	ok := succeeded(results)
	multi := len(ok) > 1

	cw := csv.NewWriter(w)
	header := []string{"Type", "Locator", "Element"}
	if multi {
		header = append([]string{"Source"}, header...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range ok {
		for _, row := range r.Locators.Rows() {
			record := []string{string(row.Type), row.Locator, row.Element}
			if multi {
				record = append([]string{r.Source}, record...)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatTable writes results as aligned columns for terminal display,
// preceded by a heading per source.
func FormatTable(w io.Writer, results []*Result) error {
	ok := succeeded(results)
	for i, r := range ok {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if len(ok) > 1 {
			fmt.Fprintf(w, "== %s (%d locators)\n", r.Source, r.Locators.Len())
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tLOCATOR\tELEMENT")
		for _, row := range r.Locators.Rows() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Type, row.Locator, row.Element)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func succeeded(results []*Result) []*Result {
	ok := make([]*Result, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Locators != nil {
			ok = append(ok, r)
		}
	}
	return ok
}

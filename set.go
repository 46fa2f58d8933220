package locator

import (
	"bytes"
	"encoding/json"
)

// Category names a kind of locator.
type Category string

// Locator categories, in extraction order.
const (
	CategoryID            Category = "ID"
	CategoryName          Category = "Name"
	CategoryTestID        Category = "Data-testid"
	CategoryLinks         Category = "Links"
	CategoryButtons       Category = "Buttons"
	CategoryClassNames    Category = "Class Names"
	CategoryAccessibility Category = "Accessibility"
	CategoryCSS           Category = "CSS"
	CategoryXPath         Category = "XPath"
)

// Categories returns all locator categories in their fixed order.
func Categories() []Category {
	return []Category{
		CategoryID,
		CategoryName,
		CategoryTestID,
		CategoryLinks,
		CategoryButtons,
		CategoryClassNames,
		CategoryAccessibility,
		CategoryCSS,
		CategoryXPath,
	}
}

// Record is a single extracted locator.
type Record struct {
	// Locator is the attribute value, selector or path.
	Locator string `json:"locator"`

	// Element describes the owning element: its tag name, or a richer
	// descriptor such as a[text='Home'] for links.
	Element string `json:"element"`
}

// Row is a Record flattened together with its category.
type Row struct {
	Type    Category
	Locator string
	Element string
}

// Set holds the records of one extraction, grouped by category.
// Every category is present; categories without matches are empty.
type Set struct {
	records map[Category][]Record

	// Skipped lists elements left out because they were malformed.
	Skipped []*MalformedElementError
}

// NewSet returns a Set with all categories present and empty.
func NewSet() *Set {
	s := &Set{records: make(map[Category][]Record, 9)}
	for _, c := range Categories() {
		s.records[c] = []Record{}
	}
	return s
}

// Add appends a record to a category.
func (s *Set) Add(c Category, r Record) {
	if s.records == nil {
		s.records = make(map[Category][]Record, 9)
	}
	s.records[c] = append(s.records[c], r)
}

// Records returns the records of a category in document order.
func (s *Set) Records(c Category) []Record {
	if records := s.records[c]; records != nil {
		return records
	}
	return []Record{}
}

// Len returns the total number of records across all categories.
func (s *Set) Len() int {
	n := 0
	for _, records := range s.records {
		n += len(records)
	}
	return n
}

// Empty reports whether no category has any records.
func (s *Set) Empty() bool {
	return s.Len() == 0
}

// Err returns an EEMPTY warning when the set holds no records.
// It is not a failure: the page was processed but offered nothing to locate.
func (s *Set) Err() error {
	if s.Empty() {
		return Errorf(EEMPTY, "no locators found")
	}
	return nil
}

// Rows flattens the set into category-tagged rows, categories in fixed order.
func (s *Set) Rows() []Row {
	rows := make([]Row, 0, s.Len())
	for _, c := range Categories() {
		for _, r := range s.records[c] {
			rows = append(rows, Row{Type: c, Locator: r.Locator, Element: r.Element})
		}
	}
	return rows
}

// MarshalJSON encodes the set as an object keyed by category name in the
// fixed category order. Markup characters are written as is; encoding the
// set with json.Marshal re-escapes them as \u003c and friends.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(string(c))
		if err != nil {
			return nil, err
		}
		records := s.records[c]
		if records == nil {
			records = []Record{}
		}
		value, err := marshalJSON(records)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object produced by MarshalJSON. Unknown keys
// are rejected.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw map[string][]Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fresh := NewSet()
	known := make(map[Category]bool, 9)
	for _, c := range Categories() {
		known[c] = true
	}
	for key, records := range raw {
		c := Category(key)
		if !known[c] {
			return Errorf(EINVALID, "unknown locator category %q", key)
		}
		if records != nil {
			fresh.records[c] = records
		}
	}
	s.records = fresh.records
	return nil
}

// marshalJSON encodes v without escaping HTML characters, which are common
// in selectors and link text.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

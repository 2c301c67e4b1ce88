// Package xcstrings implements reading and writing of Xcode String Catalog
// (.xcstrings) files.
//
// A String Catalog is a JSON document with the structure:
//
//   - "sourceLanguage" holds the development language code (e.g. "en").
//   - "strings" maps every key to an entry carrying an optional comment and a
//     "localizations" object keyed by language code.
//   - A localization is either a single "stringUnit" ({state, value}) or a set
//     of plural "variations" (zero/one/two/few/many/other), each wrapping its
//     own stringUnit.
//
// Round-trip fidelity: key order from the source file is preserved, members
// this package does not model are kept verbatim, and output uses Xcode's
// `"key" : value` layout with two-space indentation.
package xcstrings

import (
	"encoding/json"
	"sort"
)

// ---------------------------------------------------------------------------
// States
// ---------------------------------------------------------------------------

// State is the translation state of a string unit.
type State string

const (
	// StateNew marks a unit that still needs a translation.
	StateNew State = "new"
	// StateTranslated marks a unit with a reviewed translation.
	StateTranslated State = "translated"
)

// StringUnit is one translatable value.
type StringUnit struct {
	State State  `json:"state"`
	Value string `json:"value"`
}

// ---------------------------------------------------------------------------
// Plural categories
// ---------------------------------------------------------------------------

// PluralCategory is a CLDR plural category.
type PluralCategory int

const (
	Zero PluralCategory = iota
	One
	Two
	Few
	Many
	Other
)

// NoVariation is the table label of a unit without plural category.
const NoVariation = "N/A"

// Categories lists every plural category in canonical order.
var Categories = []PluralCategory{Zero, One, Two, Few, Many, Other}

var categoryLabels = [...]string{"zero", "one", "two", "few", "many", "other"}

// String returns the external label ("zero", "one", ...).
func (c PluralCategory) String() string {
	if c < Zero || c > Other {
		return "unknown"
	}
	return categoryLabels[c]
}

// ParseCategory maps an external label back to its category.
func ParseCategory(label string) (PluralCategory, bool) {
	for i, l := range categoryLabels {
		if l == label {
			return PluralCategory(i), true
		}
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Translation groups
// ---------------------------------------------------------------------------

// Group is the translation of one key in one language. It is either *Simple
// or *Plural; the set is closed.
type Group interface {
	isGroup()
}

// Simple is a localization holding a single string unit.
type Simple struct {
	Unit StringUnit

	extra map[string]json.RawMessage
}

// Plural is a localization holding plural variations. Not every category
// needs to be present.
type Plural struct {
	Units map[PluralCategory]*StringUnit

	extra           map[string]json.RawMessage
	variationsExtra map[string]json.RawMessage
}

func (*Simple) isGroup() {}
func (*Plural) isGroup() {}

// NewPlural returns an empty plural group.
func NewPlural() *Plural {
	return &Plural{Units: make(map[PluralCategory]*StringUnit)}
}

// Get returns the unit for c, if present.
func (p *Plural) Get(c PluralCategory) (*StringUnit, bool) {
	u, ok := p.Units[c]
	return u, ok && u != nil
}

// Set stores u for category c.
func (p *Plural) Set(c PluralCategory, u StringUnit) {
	if p.Units == nil {
		p.Units = make(map[PluralCategory]*StringUnit)
	}
	p.Units[c] = &u
}

// Present returns the categories carrying a unit, in canonical order.
func (p *Plural) Present() []PluralCategory {
	var out []PluralCategory
	for _, c := range Categories {
		if _, ok := p.Get(c); ok {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether category c carries a unit.
func (p *Plural) Has(c PluralCategory) bool {
	_, ok := p.Get(c)
	return ok
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// Entry is a single key of the catalog.
type Entry struct {
	Comment         string
	ExtractionState string
	ShouldTranslate *bool
	// Localizations maps language code to its translation.
	Localizations map[string]Group

	extra map[string]json.RawMessage
}

// Catalog is a parsed String Catalog.
type Catalog struct {
	SourceLanguage string
	Version        string
	// Strings maps every key to its entry.
	Strings map[string]*Entry

	// keys stores the keys in document order.
	keys  []string
	extra map[string]json.RawMessage
}

// New returns an empty catalog for sourceLanguage.
func New(sourceLanguage string) *Catalog {
	return &Catalog{
		SourceLanguage: sourceLanguage,
		Version:        "1.0",
		Strings:        make(map[string]*Entry),
	}
}

// Add appends a key, or replaces the entry of an existing key in place.
func (c *Catalog) Add(key string, e *Entry) {
	if e.Localizations == nil {
		e.Localizations = make(map[string]Group)
	}
	if _, ok := c.Strings[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.Strings[key] = e
}

// Keys returns every key in document order.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.keys...)
}

// KeySet returns the set of all keys. Plural categories are not counted
// separately.
func (c *Catalog) KeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.keys))
	for _, k := range c.keys {
		set[k] = struct{}{}
	}
	return set
}

// Languages returns every language code that has at least one localization,
// sorted.
func (c *Catalog) Languages() []string {
	seen := make(map[string]bool)
	for _, k := range c.keys {
		for lang := range c.Strings[k].Localizations {
			seen[lang] = true
		}
	}
	langs := make([]string, 0, len(seen))
	for l := range seen {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

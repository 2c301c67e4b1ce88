package xcstrings

import (
	"sort"
	"strings"
)

// ViewEntry is one key as seen from a single language.
type ViewEntry struct {
	Key         string
	Comment     string
	Translation Group
}

// Localization holds every entry of one language, in catalog key order.
type Localization struct {
	Entries   []ViewEntry
	WordCount int
}

// Find returns the entry for key, if the language has one.
func (l *Localization) Find(key string) (ViewEntry, bool) {
	if l == nil {
		return ViewEntry{}, false
	}
	for _, e := range l.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return ViewEntry{}, false
}

// View is the catalog projected per language.
type View struct {
	Languages map[string]*Localization
}

// Language returns the localization of lang, or nil.
func (v *View) Language(lang string) *Localization {
	return v.Languages[lang]
}

// Codes returns the language codes of the view, sorted.
func (v *View) Codes() []string {
	codes := make([]string, 0, len(v.Languages))
	for c := range v.Languages {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// View builds the per-language projection of the catalog. The returned
// value shares translation groups with the catalog and must be treated as
// read-only.
func (c *Catalog) View() *View {
	v := &View{Languages: make(map[string]*Localization)}

	for _, key := range c.keys {
		e := c.Strings[key]
		for _, lang := range sortedKeys(e.Localizations) {
			g := e.Localizations[lang]
			loc := v.Languages[lang]
			if loc == nil {
				loc = &Localization{}
				v.Languages[lang] = loc
			}
			loc.Entries = append(loc.Entries, ViewEntry{Key: key, Comment: e.Comment, Translation: g})
			loc.WordCount += groupWords(g)
		}
	}
	return v
}

func groupWords(g Group) int {
	switch g := g.(type) {
	case *Simple:
		return countWords(g.Unit.Value)
	case *Plural:
		n := 0
		for _, c := range g.Present() {
			u, _ := g.Get(c)
			n += countWords(u.Value)
		}
		return n
	}
	return 0
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

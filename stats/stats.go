// Package stats computes per-language completeness of a String Catalog.
package stats

import (
	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// Language is the completeness of one language.
type Language struct {
	LanguageCode     string `json:"language_code"`
	WordCount        int    `json:"word_count"`
	LocalizedKeys    int    `json:"localized_keys"`
	NotLocalizedKeys int    `json:"not_localized_keys"`
}

// Total is the number of units counted for the language.
func (l Language) Total() int {
	return l.LocalizedKeys + l.NotLocalizedKeys
}

// Report is the completeness of every language of a catalog.
type Report struct {
	Languages    []Language `json:"export"`
	BaseLanguage string     `json:"base_language"`
}

// Find returns the statistics of lang.
func (r *Report) Find(lang string) (Language, bool) {
	for _, l := range r.Languages {
		if l.LanguageCode == lang {
			return l, true
		}
	}
	return Language{}, false
}

// Compute counts localized and not localized units for every language of
// view, which must be the projection of cat. A nil view is built from cat.
//
// Units of the source language always count as localized: Xcode does not
// keep their state up to date.
func Compute(cat *xcstrings.Catalog, view *xcstrings.View) (*Report, error) {
	if view == nil {
		view = cat.View()
	}
	source := view.Language(cat.SourceLanguage)

	report := &Report{BaseLanguage: cat.SourceLanguage}
	for _, lang := range view.Codes() {
		loc := view.Language(lang)
		stat := Language{LanguageCode: lang, WordCount: loc.WordCount}

		remaining := cat.KeySet()
		for _, e := range loc.Entries {
			if _, ok := remaining[e.Key]; !ok {
				return nil, errs.Validation("No key found for: %s", e.Key)
			}
			delete(remaining, e.Key)

			for _, u := range units(e.Translation) {
				if u.State == xcstrings.StateTranslated || lang == cat.SourceLanguage {
					stat.LocalizedKeys++
				} else {
					stat.NotLocalizedKeys++
				}
			}
		}

		// Keys this language has no entry for yet. Their shape comes from
		// the source language; without one the value is inlined in the base
		// string and counts once.
		for key := range remaining {
			stat.NotLocalizedKeys += missingUnits(source, key)
		}

		log.WithFields(log.Fields{
			"language":     lang,
			"localized":    stat.LocalizedKeys,
			"notLocalized": stat.NotLocalizedKeys,
			"missing":      len(remaining),
		}).Debug("computed language statistics")
		report.Languages = append(report.Languages, stat)
	}
	return report, nil
}

// ComputeFile parses the catalog at path and computes its statistics.
func ComputeFile(path string) (*Report, error) {
	cat, err := xcstrings.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Compute(cat, nil)
}

func units(g xcstrings.Group) []xcstrings.StringUnit {
	switch g := g.(type) {
	case *xcstrings.Simple:
		return []xcstrings.StringUnit{g.Unit}
	case *xcstrings.Plural:
		present := g.Present()
		out := make([]xcstrings.StringUnit, 0, len(present))
		for _, c := range present {
			u, _ := g.Get(c)
			out = append(out, *u)
		}
		return out
	}
	return nil
}

func missingUnits(source *xcstrings.Localization, key string) int {
	e, ok := source.Find(key)
	if !ok {
		return 1
	}
	if p, ok := e.Translation.(*xcstrings.Plural); ok {
		return len(p.Present())
	}
	return 1
}

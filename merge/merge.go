// Package merge implements absorbing a reviewed table back into a String
// Catalog, the inverse of the projector.
//
// - Every row must name a key that already exists in the catalog.
// - A language missing from a key is created on first sight, simple or
//   plural depending on the row's variation.
// - A row's kind must match the existing localization kind.
// - The state of every written unit is recomputed from its text.
package merge

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// Counts reports how many units were written per resulting state.
type Counts struct {
	Translated  int `json:"keys_translated"`
	ToTranslate int `json:"keys_to_translate"`
}

// Apply writes every entry of x into cat, in order. Later rows for the same
// key, language and variation overwrite earlier ones. On error cat may be
// partially updated and must be discarded.
func Apply(cat *xcstrings.Catalog, x *table.Extraction) (Counts, error) {
	var counts Counts
	lang := x.LanguageCode

	for _, e := range x.Entries {
		entry, ok := cat.Strings[e.Key]
		if !ok {
			return Counts{}, errs.Validation("There is no matching key for: %s", e.Key)
		}
		if entry.Localizations == nil {
			entry.Localizations = make(map[string]xcstrings.Group)
		}

		group, ok := entry.Localizations[lang]
		if !ok {
			if e.Variation == nil {
				group = &xcstrings.Simple{}
			} else {
				group = xcstrings.NewPlural()
			}
			entry.Localizations[lang] = group
		}

		u := newUnit(e.Translated, &counts)

		switch g := group.(type) {
		case *xcstrings.Simple:
			if e.Variation != nil {
				return Counts{}, errs.Validation("Expected no variation for key: %s", e.Key)
			}
			g.Unit = u
		case *xcstrings.Plural:
			if e.Variation == nil {
				return Counts{}, errs.Validation("Expected variation for key: %s", e.Key)
			}
			g.Set(*e.Variation, u)
		default:
			return Counts{}, errs.Validation("Unsupported localization for key: %s", e.Key)
		}
	}

	log.WithFields(log.Fields{
		"language":          lang,
		"keys_translated":   counts.Translated,
		"keys_to_translate": counts.ToTranslate,
	}).Debug("merged review table")
	return counts, nil
}

// newUnit derives the unit stored for a reviewed text.
func newUnit(text string, counts *Counts) xcstrings.StringUnit {
	text = strings.TrimSpace(text)
	if text == "" {
		counts.ToTranslate++
		return xcstrings.StringUnit{State: xcstrings.StateNew, Value: text}
	}
	counts.Translated++
	return xcstrings.StringUnit{State: xcstrings.StateTranslated, Value: text}
}

package table

import (
	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// Entry is one data row of a review table.
type Entry struct {
	Key string
	// Variation is nil for simple (N/A) rows.
	Variation  *xcstrings.PluralCategory
	Translated string
}

// Extraction is the content of a review table.
type Extraction struct {
	LanguageCode string
	Entries      []Entry
}

// Keys returns the distinct keys of the extraction in first-seen order.
func (x *Extraction) Keys() []string {
	seen := make(map[string]bool, len(x.Entries))
	var keys []string
	for _, e := range x.Entries {
		if !seen[e.Key] {
			seen[e.Key] = true
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Extract reads the single table of doc into translation records.
func Extract(doc *Document) (*Extraction, error) {
	if doc == nil || len(doc.Tables) != 1 {
		n := 0
		if doc != nil {
			n = len(doc.Tables)
		}
		return nil, errs.Structure("Corrupted document: expected exactly one table, found %d", n)
	}

	t := doc.Tables[0]
	if len(t.Rows) == 0 {
		return nil, errs.Schema("The table has no header row")
	}

	schema, err := ResolveSchema(t.Rows[0])
	if err != nil {
		return nil, err
	}

	x := &Extraction{LanguageCode: schema.LanguageCode}

	for i, row := range t.Rows[1:] {
		pos := i + 1
		if len(row.Cells) < schema.width() {
			return nil, errs.Structure("Corrupted document: row %d has %d cells, expected %d",
				pos, len(row.Cells), schema.width())
		}

		key := row.Cells[schema.Key].Text()
		variation := row.Cells[schema.Variation].Text()
		translated := row.Cells[schema.Translated].Text()

		if key == "" {
			return nil, errs.Validation("Found empty key in row %d, variation: %q, translated value: %q",
				pos, variation, translated)
		}
		if variation == "" {
			return nil, errs.Validation("Found empty variation, key: %q, translated value: %q",
				key, translated)
		}

		e := Entry{Key: key, Translated: translated}
		if variation != xcstrings.NoVariation {
			cat, ok := xcstrings.ParseCategory(variation)
			if !ok {
				return nil, errs.Validation("Unknown variation %q for key: %q", variation, key)
			}
			e.Variation = &cat
		}
		x.Entries = append(x.Entries, e)
	}

	log.WithFields(log.Fields{"language": x.LanguageCode, "rows": len(x.Entries)}).Debug("extracted review table")
	return x, nil
}

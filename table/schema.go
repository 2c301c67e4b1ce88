package table

import (
	"strings"

	"github.com/minios-linux/xcdocx/errs"
)

// Schema holds the column roles discovered from a header row.
type Schema struct {
	Key          int
	Variation    int
	Translated   int
	LanguageCode string
}

// ResolveSchema locates the Key and Variation columns by exact header text
// and takes the last column as the language under review.
func ResolveSchema(header Row) (Schema, error) {
	if len(header.Cells) == 0 {
		return Schema{}, errs.Schema("The header row is empty")
	}

	s := Schema{Key: -1, Variation: -1, Translated: len(header.Cells) - 1}
	for i, cell := range header.Cells {
		// Word processors pad header cells; compare trimmed text.
		switch strings.TrimSpace(cell.Text()) {
		case HeaderKey:
			if s.Key < 0 {
				s.Key = i
			}
		case HeaderVariation:
			if s.Variation < 0 {
				s.Variation = i
			}
		}
	}

	if s.Key < 0 {
		return Schema{}, errs.Schema("There is no key column")
	}
	if s.Variation < 0 {
		return Schema{}, errs.Schema("There is no variation column")
	}

	s.LanguageCode = strings.TrimSpace(header.Cells[s.Translated].Text())
	if s.LanguageCode == "" || s.Translated == s.Key || s.Translated == s.Variation {
		return Schema{}, errs.Schema("There is no language code to translate from, this should be the last column")
	}
	return s, nil
}

// width is the number of cells a data row needs.
func (s Schema) width() int {
	return s.Translated + 1
}

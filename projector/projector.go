// Package projector turns a String Catalog into review tables, one per
// target language.
//
// Rows follow the base language's key order. Simple keys produce a single
// "N/A" row; plural keys produce one row per base category in canonical
// order, followed by one row per category that only the target language
// defines, so translator-added forms are never dropped. Projection never
// mutates the catalog.
package projector

import (
	"fmt"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// Column is an optional review table column.
type Column string

// ColumnState adds the translation state of the target unit.
const ColumnState Column = "state"

// ParseColumn validates a column name.
func ParseColumn(s string) (Column, error) {
	switch Column(s) {
	case ColumnState:
		return ColumnState, nil
	}
	return "", fmt.Errorf("unknown column %q (supported: %s)", s, ColumnState)
}

// Options selects the languages and columns of one projection.
type Options struct {
	BaseLanguage   string
	TargetLanguage string
	Columns        []Column
}

func (o Options) has(c Column) bool {
	for _, col := range o.Columns {
		if col == c {
			return true
		}
	}
	return false
}

// Project builds the review table of opts.TargetLanguage. It returns the
// document and the number of translatable rows.
func Project(view *xcstrings.View, opts Options) (*table.Document, int, error) {
	base := view.Language(opts.BaseLanguage)
	if base == nil {
		return nil, 0, errs.Validation("Base language %q has no localizations", opts.BaseLanguage)
	}
	target := view.Language(opts.TargetLanguage)

	p := &projection{opts: opts, withState: opts.has(ColumnState)}
	p.header()

	for _, be := range base.Entries {
		te, hasTarget := target.Find(be.Key)

		switch bg := be.Translation.(type) {
		case *xcstrings.Simple:
			var unit *xcstrings.StringUnit
			if hasTarget {
				ts, ok := te.Translation.(*xcstrings.Simple)
				if !ok {
					return nil, 0, errs.Validation("Expected no variation for key: %s (language %s)", be.Key, opts.TargetLanguage)
				}
				unit = &ts.Unit
			}
			p.row(be, xcstrings.NoVariation, bg.Unit.Value, unit)

		case *xcstrings.Plural:
			var tp *xcstrings.Plural
			if hasTarget {
				var ok bool
				if tp, ok = te.Translation.(*xcstrings.Plural); !ok {
					return nil, 0, errs.Validation("Expected variation for key: %s (language %s)", be.Key, opts.TargetLanguage)
				}
			}

			for _, cat := range bg.Present() {
				bu, _ := bg.Get(cat)
				var unit *xcstrings.StringUnit
				if tp != nil {
					unit, _ = tp.Get(cat)
				}
				p.row(be, cat.String(), bu.Value, unit)
			}

			if tp == nil {
				continue
			}
			for _, cat := range tp.Present() {
				if bg.Has(cat) {
					continue
				}
				unit, _ := tp.Get(cat)
				p.row(be, cat.String(), "", unit)
			}

		default:
			return nil, 0, fmt.Errorf("key %s: unknown translation group %T", be.Key, be.Translation)
		}
	}

	doc := &table.Document{Tables: []*table.Table{p.table}}
	return doc, p.count, nil
}

// projection accumulates the rows of one table.
type projection struct {
	opts      Options
	withState bool
	table     *table.Table
	count     int
}

func (p *projection) header() {
	cells := []string{table.HeaderKey, table.HeaderComment, table.HeaderVariation}
	if p.withState {
		cells = append(cells, table.HeaderState)
	}
	cells = append(cells, p.opts.BaseLanguage, p.opts.TargetLanguage)

	row := table.NewRow(cells...)
	row.Header = true
	p.table = &table.Table{Rows: []table.Row{row}}
}

// row appends one translatable unit. A nil unit is rendered as an empty,
// new translation.
func (p *projection) row(e xcstrings.ViewEntry, variation, baseValue string, unit *xcstrings.StringUnit) {
	state, value := xcstrings.StateNew, ""
	if unit != nil {
		state, value = unit.State, unit.Value
	}

	cells := []string{e.Key, e.Comment, variation}
	if p.withState {
		cells = append(cells, string(state))
	}
	cells = append(cells, baseValue, value)

	p.table.Rows = append(p.table.Rows, table.NewRow(cells...))
	p.count++
}

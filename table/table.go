// Package table models the review table exchanged with translators and turns
// it back into structured translation records.
//
// A review document holds exactly one table. Row 0 is the header:
//
//	Key | Comment | Variation | [State] | <base language> | <target language>
//
// The rightmost column always holds the language under review. Simple
// entries carry the literal "N/A" in the Variation column; plural entries
// carry the category label ("zero", "one", "two", "few", "many", "other").
package table

import "strings"

// Header labels matched by exact text against review documents.
const (
	HeaderKey       = "Key"
	HeaderComment   = "Comment"
	HeaderVariation = "Variation"
	HeaderState     = "State"
)

// Cell is a table cell made of paragraphs.
type Cell struct {
	Paragraphs []string
}

// NewCell builds a cell holding one paragraph per line of text.
func NewCell(text string) Cell {
	return Cell{Paragraphs: strings.Split(text, "\n")}
}

// Text joins the paragraphs with line breaks. An empty paragraph contributes
// a blank line.
func (c Cell) Text() string {
	return strings.Join(c.Paragraphs, "\n")
}

// Row is an ordered list of cells.
type Row struct {
	Cells []Cell
	// Header marks a row that repeats as table header.
	Header bool
}

// NewRow builds a row from plain cell texts.
func NewRow(texts ...string) Row {
	r := Row{Cells: make([]Cell, 0, len(texts))}
	for _, t := range texts {
		r.Cells = append(r.Cells, NewCell(t))
	}
	return r
}

// Texts returns the text of every cell.
func (r Row) Texts() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text()
	}
	return out
}

// Table is an ordered list of rows; row 0 is the header.
type Table struct {
	Rows []Row
}

// Document is a review document.
type Document struct {
	Tables []*Table
}

package document

import (
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
)

const mainPart = "word/document.xml"

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteDocx writes doc as a Word document. Every cell paragraph becomes one
// <w:p>; the header row is set in bold.
func WriteDocx(w io.Writer, doc *table.Document) error {
	d := newDocx(doc)
	if _, err := d.WriteTo(w); err != nil {
		return errs.Wrap(errs.ErrIO, err, "writing docx")
	}
	return nil
}

func newDocx(doc *table.Document) *docx.Docx {
	d := docx.New().WithDefaultTheme()

	for _, t := range doc.Tables {
		tbl := d.AddTable(len(t.Rows), columnCount(t), 0, nil)
		for i, row := range t.Rows {
			tr := tbl.TableRows[i]
			tr.TableCells = tr.TableCells[:len(row.Cells)]
			for j, cell := range row.Cells {
				fillCell(tr.TableCells[j], cell, row.Header)
			}
		}
	}

	// A body must not end with a table.
	d.AddParagraph()
	return d
}

func fillCell(tc *docx.WTableCell, cell table.Cell, bold bool) {
	paragraphs := cell.Paragraphs
	if len(paragraphs) == 0 {
		paragraphs = []string{""}
	}
	for _, text := range paragraphs {
		p := tc.AddParagraph()
		if text == "" {
			continue
		}
		run := p.AddText(text)
		if bold {
			run.Bold()
		}
		for _, c := range run.Children {
			if t, ok := c.(*docx.Text); ok && strings.TrimSpace(t.Text) != t.Text {
				t.XMLSpace = "preserve"
			}
		}
	}
}

func columnCount(t *table.Table) int {
	n := 0
	for _, r := range t.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Reading
// ---------------------------------------------------------------------------

// ReadDocx reads every top-level table of a Word document. Text outside
// tables is ignored; tables nested inside cells are skipped. Row 0 of every
// table is taken as its header.
func ReadDocx(r io.ReaderAt, size int64) (*table.Document, error) {
	d, err := docx.Parse(r, size)
	if err != nil {
		return nil, errs.Structure("Corrupted .docx file: %v", err)
	}
	// Parse names the document element only when the main part exists.
	if d.Document.XMLName.Local == "" {
		return nil, errs.Structure("Corrupted .docx file: missing %s", mainPart)
	}

	out := &table.Document{}
	for _, item := range d.Document.Body.Items {
		tbl, ok := item.(*docx.Table)
		if !ok {
			continue
		}
		t := &table.Table{}
		for i, tr := range tbl.TableRows {
			row := table.Row{Header: i == 0}
			for _, tc := range tr.TableCells {
				row.Cells = append(row.Cells, readCell(tc))
			}
			t.Rows = append(t.Rows, row)
		}
		out.Tables = append(out.Tables, t)
	}
	return out, nil
}

func readCell(tc *docx.WTableCell) table.Cell {
	var cell table.Cell
	for _, p := range tc.Paragraphs {
		cell.Paragraphs = append(cell.Paragraphs, paragraphText(p))
	}
	return cell
}

// paragraphText concatenates the runs of p, hyperlinks included. Drawings
// and text boxes are not text.
func paragraphText(p *docx.Paragraph) string {
	var b strings.Builder
	for _, c := range p.Children {
		switch o := c.(type) {
		case *docx.Run:
			writeRun(&b, o)
		case *docx.Hyperlink:
			writeRun(&b, &o.Run)
		}
	}
	return b.String()
}

func writeRun(b *strings.Builder, r *docx.Run) {
	for _, c := range r.Children {
		switch x := c.(type) {
		case *docx.Text:
			b.WriteString(x.Text)
		case *docx.Tab:
			b.WriteByte('\t')
		case *docx.BarterRabbet:
			b.WriteByte('\n')
		}
	}
}

package document

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
)

// ReadCSV reads a CSV file as a single table. The first record is the header.
func ReadCSV(r io.Reader) (*table.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, err, "reading csv")
	}
	data = stripBOM(data)

	cr := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	cr.FieldsPerRecord = -1

	t := &table.Table{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Structure("Corrupted .csv file: %v", err)
		}
		row := table.Row{Header: len(t.Rows) == 0}
		for _, field := range rec {
			row.Cells = append(row.Cells, table.NewCell(strings.ReplaceAll(field, "\r\n", "\n")))
		}
		t.Rows = append(t.Rows, row)
	}

	doc := &table.Document{}
	if len(t.Rows) > 0 {
		doc.Tables = append(doc.Tables, t)
	}
	return doc, nil
}

// WriteCSV writes the single table of doc.
func WriteCSV(w io.Writer, doc *table.Document) error {
	if len(doc.Tables) != 1 {
		return errs.Structure("A .csv file holds exactly one table, got %d", len(doc.Tables))
	}

	cw := csv.NewWriter(w)
	for _, row := range doc.Tables[0].Rows {
		if err := cw.Write(row.Texts()); err != nil {
			return errs.Wrap(errs.ErrIO, err, "writing csv")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errs.Wrap(errs.ErrIO, err, "writing csv")
	}
	return nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}

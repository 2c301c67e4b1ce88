// Package document reads and writes review tables on disk.
//
// Two physical formats are supported, chosen by file extension:
//
//   - .docx: an Office Open XML word-processing document whose body holds
//     the review table. Cells keep one paragraph per line.
//   - .csv: a comma-separated file; the whole file is one table and
//     multi-line cells are quoted.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
)

// Format is a physical review table format.
type Format string

const (
	// FormatDocx is a Word document.
	FormatDocx Format = "docx"
	// FormatCSV is a comma-separated file.
	FormatCSV Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatDocx:
		return FormatDocx, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown document format %q (supported: docx, csv)", s)
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errs.Structure("Cannot determine document format of %s", path)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", errs.Structure("Cannot determine document format of %s", path)
	}
	return f, nil
}

// Extension returns the file extension of f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Read loads the review document at path.
func Read(path string) (*table.Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO(err, path)
	}
	defer f.Close()

	var doc *table.Document
	switch format {
	case FormatDocx:
		info, err := f.Stat()
		if err != nil {
			return nil, errs.IO(err, path)
		}
		doc, err = ReadDocx(f, info.Size())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	case FormatCSV:
		doc, err = ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	log.WithFields(log.Fields{"path": path, "tables": len(doc.Tables)}).Debug("read review document")
	return doc, nil
}

// Write stores doc at path, replacing any existing file.
func Write(doc *table.Document, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.IO(err, filepath.Dir(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.IO(err, path)
	}

	switch format {
	case FormatDocx:
		err = WriteDocx(f, doc)
	case FormatCSV:
		err = WriteCSV(f, doc)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errs.IO(cerr, path)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	log.WithField("path", path).Debug("wrote review document")
	return nil
}

package document

import (
	"os"

	"github.com/tidwall/gjson"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
)

// Kind is what a file turned out to contain.
type Kind string

const (
	// KindDocx is a Word document holding a valid review table.
	KindDocx Kind = "Docx"
	// KindCSV is a CSV file holding a valid review table.
	KindCSV Kind = "Csv"
	// KindXCStrings is a String Catalog.
	KindXCStrings Kind = "XCStrings"
	// KindOther is anything else.
	KindOther Kind = "Other"
)

// Detect inspects the content of path. Only an unreadable file is an error.
func Detect(path string) (Kind, error) {
	if f, err := FormatOf(path); err == nil {
		if doc, err := Read(path); err == nil {
			if _, err := table.Extract(doc); err == nil {
				if f == FormatCSV {
					return KindCSV, nil
				}
				return KindDocx, nil
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.IO(err, path)
	}
	if isCatalog(data) {
		return KindXCStrings, nil
	}
	return KindOther, nil
}

// isCatalog probes the top-level members of a String Catalog without
// decoding the whole file.
func isCatalog(data []byte) bool {
	if !gjson.ValidBytes(data) {
		return false
	}
	src := gjson.GetBytes(data, "sourceLanguage")
	strs := gjson.GetBytes(data, "strings")
	return src.Type == gjson.String && src.String() != "" && strs.IsObject()
}

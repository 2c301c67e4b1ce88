package merge

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/document"
	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// RunOptions names the files of one merge.
type RunOptions struct {
	// Document is the reviewed .docx or .csv table.
	Document string
	// Base is the existing catalog to merge into.
	Base string
	// Updated is where the merged catalog is written; it may equal Base.
	Updated string
}

// Run merges a reviewed document into the Base catalog and writes the result
// to Updated. Updated is only written when the whole merge succeeded.
func Run(opts RunOptions) (Counts, error) {
	if _, err := os.Stat(opts.Base); err != nil {
		return Counts{}, errs.IO(err, opts.Base)
	}
	log.WithField("path", opts.Base).Debug("catalog exists")

	cat, err := xcstrings.ParseFile(opts.Base)
	if err != nil {
		return Counts{}, err
	}

	doc, err := document.Read(opts.Document)
	if err != nil {
		return Counts{}, err
	}
	x, err := table.Extract(doc)
	if err != nil {
		return Counts{}, err
	}

	counts, err := Apply(cat, x)
	if err != nil {
		return Counts{}, err
	}

	if err := cat.WriteFile(opts.Updated); err != nil {
		return Counts{}, err
	}
	log.WithFields(log.Fields{
		"path":              opts.Updated,
		"keys_translated":   counts.Translated,
		"keys_to_translate": counts.ToTranslate,
	}).Debug("updated catalog written")
	return counts, nil
}

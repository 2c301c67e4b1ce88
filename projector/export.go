package projector

import (
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/document"
	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// ExportOptions configures writing one review document per language.
type ExportOptions struct {
	// SaveIn is the output directory.
	SaveIn string
	// Clean removes SaveIn before writing.
	Clean bool
	// BaseLanguage defaults to the catalog's source language.
	BaseLanguage string
	// NewLanguages are languages without localizations yet that still get
	// a document.
	NewLanguages []string
	Columns      []Column
	// Format defaults to docx.
	Format document.Format
}

// Result describes one written document.
type Result struct {
	AmountKeysToTranslate int    `json:"amount_keys_to_translate"`
	LanguageCode          string `json:"language_code"`
	FileName              string `json:"file_name"`
}

// Export projects every language of the catalog except the base language
// and writes one document per language. Nothing is written unless every
// projection succeeds.
func Export(cat *xcstrings.Catalog, opts ExportOptions) ([]Result, error) {
	base := opts.BaseLanguage
	if base == "" {
		base = cat.SourceLanguage
	}
	format := opts.Format
	if format == "" {
		format = document.FormatDocx
	}

	view := cat.View()
	langs := targetLanguages(view, base, opts.NewLanguages)

	type pending struct {
		doc    *table.Document
		result Result
	}
	var docs []pending

	for _, lang := range langs {
		log.WithField("language", lang).Debug("projecting language")

		doc, n, err := Project(view, Options{
			BaseLanguage:   base,
			TargetLanguage: lang,
			Columns:        opts.Columns,
		})
		if err != nil {
			return nil, err
		}
		docs = append(docs, pending{doc: doc, result: Result{
			AmountKeysToTranslate: n,
			LanguageCode:          lang,
			FileName:              lang + format.Extension(),
		}})
	}

	if opts.Clean {
		if err := os.RemoveAll(opts.SaveIn); err != nil {
			return nil, errs.IO(err, opts.SaveIn)
		}
	}
	if err := os.MkdirAll(opts.SaveIn, 0755); err != nil {
		return nil, errs.IO(err, opts.SaveIn)
	}

	results := make([]Result, 0, len(docs))
	for _, p := range docs {
		path := filepath.Join(opts.SaveIn, p.result.FileName)
		if err := document.Write(p.doc, path); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"language": p.result.LanguageCode, "rows": p.result.AmountKeysToTranslate}).
			Debug("exported translations")
		results = append(results, p.result)
	}
	return results, nil
}

// targetLanguages returns every language of the view plus extra, without
// base, sorted and deduplicated.
func targetLanguages(view *xcstrings.View, base string, extra []string) []string {
	set := make(map[string]bool)
	for _, l := range view.Codes() {
		set[l] = true
	}
	for _, l := range extra {
		if l != "" {
			set[l] = true
		}
	}
	delete(set, base)

	langs := make([]string, 0, len(set))
	for l := range set {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

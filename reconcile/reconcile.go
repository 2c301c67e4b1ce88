// Package reconcile compares a reviewed table with the catalog it is going to
// be merged into, without merging anything.
package reconcile

import (
	"encoding/json"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/document"
	"github.com/minios-linux/xcdocx/stats"
	"github.com/minios-linux/xcdocx/table"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// Kind enumerates translation statuses.
type Kind string

const (
	// NoReferenceCatalog means no catalog was supplied.
	NoReferenceCatalog Kind = "NoReferenceCatalog"
	// NotYetPresent means the catalog has no localization for the table's
	// language yet.
	NotYetPresent Kind = "NotYetPresent"
	// Translated carries the number of units the catalog holds for the
	// language.
	Translated Kind = "Translated"
	// MismatchedKeys carries the table keys missing from the catalog. A
	// merge of this table would fail.
	MismatchedKeys Kind = "MismatchedKeys"
)

// Status is the outcome of a reconciliation.
type Status struct {
	Kind  Kind
	Total int
	Keys  []string
}

// MarshalJSON encodes unit statuses as a bare string and the others as a
// single-member object named after the kind.
func (s Status) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case Translated:
		return json.Marshal(map[Kind]int{s.Kind: s.Total})
	case MismatchedKeys:
		keys := s.Keys
		if keys == nil {
			keys = []string{}
		}
		return json.Marshal(map[Kind][]string{s.Kind: keys})
	default:
		return json.Marshal(string(s.Kind))
	}
}

// Report describes a reviewed table.
type Report struct {
	LanguageCode string `json:"language_code"`
	// LocalizedKeys counts the rows with non-blank translated text.
	LocalizedKeys int    `json:"localized_keys"`
	Status        Status `json:"translated_status"`
}

// Reconcile reports how x relates to cat. cat may be nil.
func Reconcile(x *table.Extraction, cat *xcstrings.Catalog) (*Report, error) {
	r := &Report{LanguageCode: x.LanguageCode}
	for _, e := range x.Entries {
		if strings.TrimSpace(e.Translated) != "" {
			r.LocalizedKeys++
		}
	}

	status, err := classify(x, cat)
	if err != nil {
		return nil, err
	}
	r.Status = status

	log.WithFields(log.Fields{
		"language": r.LanguageCode,
		"status":   r.Status.Kind,
	}).Debug("reconciled review table")
	return r, nil
}

func classify(x *table.Extraction, cat *xcstrings.Catalog) (Status, error) {
	if cat == nil {
		return Status{Kind: NoReferenceCatalog}, nil
	}

	known := cat.KeySet()
	var missing []string
	for _, k := range x.Keys() {
		if _, ok := known[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Status{Kind: MismatchedKeys, Keys: missing}, nil
	}

	report, err := stats.Compute(cat, nil)
	if err != nil {
		return Status{}, err
	}
	lang, ok := report.Find(x.LanguageCode)
	if !ok {
		return Status{Kind: NotYetPresent}, nil
	}
	return Status{Kind: Translated, Total: lang.Total()}, nil
}

// File reconciles the reviewed document at path with the catalog at
// catalogPath. An empty catalogPath reconciles without a catalog.
func File(path, catalogPath string) (*Report, error) {
	doc, err := document.Read(path)
	if err != nil {
		return nil, err
	}
	x, err := table.Extract(doc)
	if err != nil {
		return nil, err
	}

	var cat *xcstrings.Catalog
	if catalogPath != "" {
		if cat, err = xcstrings.ParseFile(catalogPath); err != nil {
			return nil, err
		}
	}
	return Reconcile(x, cat)
}

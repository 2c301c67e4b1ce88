// Package config implements .xcdocx.yaml project configuration.
//
// The file is optional. When present it supplies defaults for every command;
// command-line flags always win over values from the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/xcdocx/document"
	"github.com/minios-linux/xcdocx/projector"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .xcdocx.yaml structure.
type File struct {
	// Catalog is the .xcstrings file relative to the project root. When
	// empty the single .xcstrings file of the root is used.
	Catalog string `yaml:"catalog,omitempty"`
	// BaseLanguage is the language shown next to every translation (default:
	// the catalog's source language).
	BaseLanguage string `yaml:"base_language,omitempty"`
	// SaveIn is the directory review documents are exported to (default "docx").
	SaveIn string `yaml:"save_in,omitempty"`
	// Clean empties SaveIn before exporting.
	Clean bool `yaml:"clean,omitempty"`
	// Columns are optional extra table columns ("state").
	Columns []string `yaml:"columns,omitempty"`
	// NewLanguages get a review document even without localizations.
	NewLanguages []string `yaml:"new_languages,omitempty"`
	// Format of exported documents: "docx" (default) or "csv".
	Format string `yaml:"format,omitempty"`
	// Android configures the strings.xml writer.
	Android Android `yaml:"android,omitempty"`
}

// Android holds the android section of .xcdocx.yaml.
type Android struct {
	// AppName is written as the app_name resource.
	AppName string `yaml:"app_name,omitempty"`
	// WriteIn is the res/ directory relative to the project root.
	WriteIn string `yaml:"write_in,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// FileName is the default config file name.
const FileName = ".xcdocx.yaml"

// DefaultSaveIn is used when neither the file nor a flag names an export
// directory.
const DefaultSaveIn = "docx"

// LoadFile loads and validates .xcdocx.yaml from the given directory.
// Returns nil if no .xcdocx.yaml exists.
func LoadFile(rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.applyDefaults()
	return &f, nil
}

// Load is LoadFile with a default configuration in place of a missing file.
func Load(rootDir string) (*File, error) {
	f, err := LoadFile(rootDir)
	if err != nil {
		return nil, err
	}
	if f == nil {
		f = &File{}
		f.applyDefaults()
	}
	return f, nil
}

func (f *File) applyDefaults() {
	if f.SaveIn == "" {
		f.SaveIn = DefaultSaveIn
	}
	if f.Format == "" {
		f.Format = string(document.FormatDocx)
	}
}

func (f *File) validate() error {
	if f.BaseLanguage != "" && !isLangCode(f.BaseLanguage) {
		return fmt.Errorf("base_language %q is not a language code", f.BaseLanguage)
	}
	for _, l := range f.NewLanguages {
		if !isLangCode(l) {
			return fmt.Errorf("new_languages: %q is not a language code", l)
		}
	}
	if _, err := f.ParsedColumns(); err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	if f.Format != "" {
		if _, err := document.ParseFormat(f.Format); err != nil {
			return fmt.Errorf("format: %w", err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Typed accessors
// ---------------------------------------------------------------------------

// ParsedColumns returns Columns as projector columns.
func (f *File) ParsedColumns() ([]projector.Column, error) {
	cols := make([]projector.Column, 0, len(f.Columns))
	for _, c := range f.Columns {
		col, err := projector.ParseColumn(c)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// ParsedFormat returns Format as a document format.
func (f *File) ParsedFormat() (document.Format, error) {
	if f.Format == "" {
		return document.FormatDocx, nil
	}
	return document.ParseFormat(f.Format)
}

// Resolve returns p relative to rootDir unless p is empty or absolute.
func Resolve(rootDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}

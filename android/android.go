// Package android renders a String Catalog as Android strings.xml resources.
//
// Every language of the catalog becomes one res/values*/strings.xml file:
//   - <string>   for simple keys
//   - <plurals>  for pluralized keys, items in zero/one/two/few/many/other order
//
// The source language is written to values/ and carries the app_name
// resource; other languages go to values-XX[-rYY]/ and only contain the units
// that have a translation, so Android falls back to the default file for the
// rest.
package android

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// EntryKind identifies the type of a resource entry.
type EntryKind int

const (
	// KindString is a plain <string> resource.
	KindString EntryKind = iota
	// KindPlurals is a <plurals> resource.
	KindPlurals
	// KindComment is an XML comment (not a resource).
	KindComment
)

// PluralItem is one <item quantity="..."> of a plurals resource.
type PluralItem struct {
	Quantity string
	Value    string
}

// Entry is a single item of a strings.xml file.
type Entry struct {
	Kind EntryKind
	// Name is the resource name. Empty for comments.
	Name string
	// Translatable is false only for resources that must not be localized.
	Translatable bool

	// Value is the Android-formatted text of a KindString.
	Value string
	// Plurals holds the items of a KindPlurals in output order.
	Plurals []PluralItem
	// Comment is the text of a KindComment, without <!-- -->.
	Comment string
}

// File is one strings.xml file.
type File struct {
	Entries []*Entry
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// Options configures Write.
type Options struct {
	// WriteIn is the Android res/ directory.
	WriteIn string
	// AppName is written as the app_name resource of the source language.
	AppName string
}

// Written is one strings.xml file written by Write.
type Written struct {
	LanguageCode string `json:"language_code"`
	Path         string `json:"path"`
}

// Result lists the files written by Write, sorted by language code.
type Result struct {
	WrittenXMLs []Written `json:"written_xmls"`
}

// Write renders every language of cat under opts.WriteIn. All files are
// rendered before the first one is written.
func Write(cat *xcstrings.Catalog, opts Options) (*Result, error) {
	if opts.WriteIn == "" {
		return nil, errs.Validation("No directory to write the Android resources in")
	}

	view := cat.View()
	names := ResourceNames(cat.Keys())

	type pending struct {
		lang string
		path string
		data []byte
	}
	var files []pending
	for _, lang := range view.Codes() {
		isSource := lang == cat.SourceLanguage
		f, err := FromLocalization(view.Language(lang), names, isSource)
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		if isSource && opts.AppName != "" {
			f.Entries = append([]*Entry{{Kind: KindString, Name: "app_name", Value: escapeValue(opts.AppName)}}, f.Entries...)
		}
		files = append(files, pending{lang: lang, path: StringsXMLPath(opts.WriteIn, lang, isSource), data: f.Marshal()})
	}

	res := &Result{WrittenXMLs: []Written{}}
	for _, p := range files {
		if err := writeFile(p.path, p.data); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"language": p.lang, "path": p.path}).Debug("wrote strings.xml")
		res.WrittenXMLs = append(res.WrittenXMLs, Written{LanguageCode: p.lang, Path: p.path})
	}
	return res, nil
}

// FromLocalization builds the strings.xml content of one language. names maps
// catalog keys to resource names (see ResourceNames). Untranslated units are
// left out unless isSource is set.
func FromLocalization(loc *xcstrings.Localization, names map[string]string, isSource bool) (*File, error) {
	f := &File{}
	if loc == nil {
		return f, nil
	}

	for _, e := range loc.Entries {
		name, ok := names[e.Key]
		if !ok {
			return nil, errs.Validation("No resource name for key: %s", e.Key)
		}

		var entry *Entry
		switch g := e.Translation.(type) {
		case *xcstrings.Simple:
			if g.Unit.Value == "" && !isSource {
				continue
			}
			entry = &Entry{Kind: KindString, Name: name, Translatable: true, Value: escapeValue(ConvertFormat(g.Unit.Value))}
		case *xcstrings.Plural:
			entry = &Entry{Kind: KindPlurals, Name: name, Translatable: true}
			for _, c := range g.Present() {
				u, _ := g.Get(c)
				if u.Value == "" && !isSource {
					continue
				}
				entry.Plurals = append(entry.Plurals, PluralItem{
					Quantity: c.String(),
					Value:    escapeValue(ConvertFormat(u.Value)),
				})
			}
			if len(entry.Plurals) == 0 {
				continue
			}
		default:
			continue
		}

		if e.Comment != "" {
			f.Entries = append(f.Entries, &Entry{Kind: KindComment, Comment: e.Comment})
		}
		f.Entries = append(f.Entries, entry)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Marshal produces the XML output in Android strings.xml format. Values are
// expected to be escaped already.
func (f *File) Marshal() []byte {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<resources>\n")

	for _, e := range f.Entries {
		switch e.Kind {
		case KindComment:
			b.WriteString(fmt.Sprintf("    <!-- %s -->\n", commentEscape(e.Comment)))

		case KindString:
			b.WriteString(fmt.Sprintf("    <string %s>%s</string>\n", attrs(e), e.Value))

		case KindPlurals:
			b.WriteString(fmt.Sprintf("    <plurals %s>\n", attrs(e)))
			for _, it := range e.Plurals {
				b.WriteString(fmt.Sprintf("        <item quantity=\"%s\">%s</item>\n", it.Quantity, it.Value))
			}
			b.WriteString("    </plurals>\n")
		}
	}

	b.WriteString("</resources>\n")
	return []byte(b.String())
}

func attrs(e *Entry) string {
	a := fmt.Sprintf(`name="%s"`, e.Name)
	if !e.Translatable {
		a += ` translatable="false"`
	}
	return a
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.IO(err, filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errs.IO(err, path)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resource names and paths
// ---------------------------------------------------------------------------

// ResourceNames maps every key to a unique Android resource name. Keys are
// lowercased, runs of characters outside [a-z0-9] become one underscore, and
// collisions get a numeric suffix in key order.
func ResourceNames(keys []string) map[string]string {
	names := make(map[string]string, len(keys))
	used := map[string]bool{"app_name": true}
	for _, k := range keys {
		base := resourceName(k)
		name := base
		for i := 2; used[name]; i++ {
			name = base + "_" + strconv.Itoa(i)
		}
		used[name] = true
		names[k] = name
	}
	return names
}

func resourceName(key string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		return "key"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "key_" + name
	}
	return name
}

// LocaleDirName returns the values directory of lang: "values" for the
// source language, "values-pt-rBR" for "pt-BR", "values-b+zh+Hans" for
// "zh-Hans".
func LocaleDirName(lang string, isSource bool) string {
	if isSource {
		return "values"
	}
	return "values-" + standardToAndroidLocale(lang)
}

// StringsXMLPath returns the path to strings.xml for a given language.
func StringsXMLPath(resDir, lang string, isSource bool) string {
	return filepath.Join(resDir, LocaleDirName(lang, isSource), "strings.xml")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// A space flag only counts when a width follows, so "100% done" stays text.
var formatSpec = regexp.MustCompile(`%%|%(\d+\$)?([-+0#]*(?: [-+0#]*\d+)?\d*(?:\.\d+)?)(@|lld|llu|ld|lu|hhd|hd|d|i|u|f|e|g|x|X|c|s)`)

// ConvertFormat rewrites iOS format specifiers into Java ones: %@ becomes %s
// and the integer length modifiers (%lld, %ld) are dropped. Strings with more
// than one argument get positional specifiers, as Android lint requires.
func ConvertFormat(s string) string {
	args := 0
	for _, m := range formatSpec.FindAllStringSubmatch(s, -1) {
		if m[0] != "%%" {
			args++
		}
	}

	next := 0
	return formatSpec.ReplaceAllStringFunc(s, func(spec string) string {
		if spec == "%%" {
			return spec
		}
		m := formatSpec.FindStringSubmatch(spec)
		pos, flags, verb := m[1], m[2], m[3]

		switch verb {
		case "@":
			verb = "s"
		case "lld", "ld", "hhd", "hd", "i":
			verb = "d"
		case "llu", "lu", "u":
			verb = "d"
		}

		next++
		if pos == "" && args > 1 {
			pos = strconv.Itoa(next) + "$"
		}
		return "%" + pos + flags + verb
	})
}

// escapeValue escapes a plain string for use inside a <string> or <item>
// element, following the AAPT rules. Backslashes go first so the escapes
// added afterwards are not doubled.
func escapeValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = xmlEscape(s)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	if strings.HasPrefix(s, "@") || strings.HasPrefix(s, "?") {
		s = `\` + s
	}
	return s
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// commentEscape keeps a comment from closing early.
func commentEscape(s string) string {
	s = strings.ReplaceAll(s, "--", "- -")
	return strings.ReplaceAll(s, "\n", " ")
}

// standardToAndroidLocale converts standard BCP-47 to Android locale format.
// e.g., "pt-BR" -> "pt-rBR", "zh-Hans" -> "b+zh+Hans", "ru" -> "ru"
func standardToAndroidLocale(lang string) string {
	parts := strings.Split(lang, "-")
	switch {
	case len(parts) == 1:
		return lang
	case len(parts) == 2 && (len(parts[1]) == 2 || len(parts[1]) == 3 && isDigits(parts[1])):
		return parts[0] + "-r" + strings.ToUpper(parts[1])
	default:
		return "b+" + strings.Join(parts, "+")
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

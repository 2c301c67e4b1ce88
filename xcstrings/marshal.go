package xcstrings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/errs"
)

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serialises the catalog the way Xcode writes it: two-space
// indentation, a space on both sides of every colon and a trailing newline.
// Keys of "strings" keep document order; all other objects are sorted.
func (c *Catalog) Marshal() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')

	top := make(map[string]json.RawMessage, len(c.extra)+2)
	for k, v := range c.extra {
		top[k] = v
	}
	if err := putString(top, "sourceLanguage", c.SourceLanguage); err != nil {
		return nil, err
	}
	if c.Version != "" {
		if err := putString(top, "version", c.Version); err != nil {
			return nil, err
		}
	}

	// Members sorting before "strings" are written first, the rest after.
	before, after := splitAround(top, "strings")
	for _, k := range before {
		writeMember(&compact, k, top[k])
	}

	strs, err := c.marshalStrings()
	if err != nil {
		return nil, err
	}
	writeMember(&compact, "strings", strs)

	for _, k := range after {
		writeMember(&compact, k, top[k])
	}
	compact.WriteByte('}')

	out := indent(compact.Bytes())
	out = append(out, '\n')
	return out, nil
}

// WriteFile serialises and writes to path.
func (c *Catalog) WriteFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.IO(err, filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errs.IO(err, path)
	}
	log.WithField("path", path).Debug("wrote string catalog")
	return nil
}

func (c *Catalog) marshalStrings() (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, key := range c.keys {
		raw, err := c.Strings[key].marshal()
		if err != nil {
			return nil, fmt.Errorf("marshaling %q: %w", key, err)
		}
		writeMember(&buf, key, raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Entry) marshal() (json.RawMessage, error) {
	m := make(map[string]json.RawMessage, len(e.extra)+4)
	for k, v := range e.extra {
		m[k] = v
	}
	if e.Comment != "" {
		if err := putString(m, "comment", e.Comment); err != nil {
			return nil, err
		}
	}
	if e.ExtractionState != "" {
		if err := putString(m, "extractionState", e.ExtractionState); err != nil {
			return nil, err
		}
	}
	if e.ShouldTranslate != nil {
		m["shouldTranslate"] = json.RawMessage(fmt.Sprint(*e.ShouldTranslate))
	}
	if len(e.Localizations) > 0 {
		locs := make(map[string]json.RawMessage, len(e.Localizations))
		for lang, g := range e.Localizations {
			raw, err := marshalGroup(g)
			if err != nil {
				return nil, fmt.Errorf("language %q: %w", lang, err)
			}
			locs[lang] = raw
		}
		raw, err := marshalNoEscape(locs)
		if err != nil {
			return nil, err
		}
		m["localizations"] = raw
	}
	return marshalNoEscape(m)
}

func marshalGroup(g Group) (json.RawMessage, error) {
	m := make(map[string]json.RawMessage)

	switch g := g.(type) {
	case *Simple:
		for k, v := range g.extra {
			m[k] = v
		}
		raw, err := marshalNoEscape(g.Unit)
		if err != nil {
			return nil, err
		}
		m["stringUnit"] = raw

	case *Plural:
		for k, v := range g.extra {
			m[k] = v
		}
		plural := make(map[string]json.RawMessage)
		for _, cat := range g.Present() {
			u, _ := g.Get(cat)
			raw, err := marshalNoEscape(map[string]StringUnit{"stringUnit": *u})
			if err != nil {
				return nil, err
			}
			plural[cat.String()] = raw
		}
		variations := make(map[string]json.RawMessage, len(g.variationsExtra)+1)
		for k, v := range g.variationsExtra {
			variations[k] = v
		}
		raw, err := marshalNoEscape(plural)
		if err != nil {
			return nil, err
		}
		variations["plural"] = raw
		raw, err = marshalNoEscape(variations)
		if err != nil {
			return nil, err
		}
		m["variations"] = raw

	default:
		return nil, fmt.Errorf("unknown translation group %T", g)
	}

	return marshalNoEscape(m)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// marshalNoEscape is json.Marshal without HTML escaping; Xcode writes
// '<', '>' and '&' literally.
func marshalNoEscape(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func putString(m map[string]json.RawMessage, key, value string) error {
	raw, err := marshalNoEscape(value)
	if err != nil {
		return err
	}
	m[key] = raw
	return nil
}

func writeMember(buf *bytes.Buffer, key string, value json.RawMessage) {
	if last := buf.Bytes()[buf.Len()-1]; last != '{' {
		buf.WriteByte(',')
	}
	k, _ := marshalNoEscape(key)
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(value)
}

func splitAround(m map[string]json.RawMessage, pivot string) (before, after []string) {
	for _, k := range sortedKeys(m) {
		if k < pivot {
			before = append(before, k)
		} else if k > pivot {
			after = append(after, k)
		}
	}
	return before, after
}

// indent pretty-prints compact JSON in Xcode's layout.
func indent(src []byte) []byte {
	var (
		out      bytes.Buffer
		depth    int
		inString bool
		escaped  bool
	)

	newline := func() {
		out.WriteByte('\n')
		for i := 0; i < depth; i++ {
			out.WriteString("  ")
		}
	}

	for i := 0; i < len(src); i++ {
		ch := src[i]

		if inString {
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out.WriteByte(ch)
		case '{', '[':
			// Empty containers stay on one line.
			if i+1 < len(src) && (src[i+1] == '}' || src[i+1] == ']') {
				out.WriteByte(ch)
				out.WriteByte(src[i+1])
				i++
				continue
			}
			out.WriteByte(ch)
			depth++
			newline()
		case '}', ']':
			depth--
			newline()
			out.WriteByte(ch)
		case ',':
			out.WriteByte(ch)
			newline()
		case ':':
			out.WriteString(" : ")
		case ' ', '\t', '\n', '\r':
			// compact input; drop stray whitespace
		default:
			out.WriteByte(ch)
		}
	}
	return out.Bytes()
}

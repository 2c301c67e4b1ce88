package xcstrings

import (
	"bytes"
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/minios-linux/xcdocx/errs"
)

// ParseFile reads and parses a String Catalog from disk.
func ParseFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO(err, path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"path": path, "keys": len(c.keys)}).Debug("parsed string catalog")
	return c, nil
}

// Parse parses String Catalog content.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{
		Strings: make(map[string]*Entry),
		extra:   make(map[string]json.RawMessage),
	}

	// Token streaming keeps the order of "strings".
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		switch key {
		case "strings":
			if err := parseStrings(dec, c); err != nil {
				return nil, err
			}
		case "sourceLanguage":
			if err := dec.Decode(&c.SourceLanguage); err != nil {
				return nil, errs.Format("parsing sourceLanguage: %v", err)
			}
		case "version":
			if err := dec.Decode(&c.Version); err != nil {
				return nil, errs.Format("parsing version: %v", err)
			}
		default:
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, errs.Format("parsing %q: %v", key, err)
			}
			c.extra[key] = raw
		}
	}

	if c.SourceLanguage == "" {
		return nil, errs.Format("catalog has no sourceLanguage")
	}
	return c, nil
}

func parseStrings(dec *json.Decoder, c *Catalog) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errs.Format("parsing entry %q: %v", key, err)
		}
		e, err := parseEntry(raw)
		if err != nil {
			return errs.Format("parsing entry %q: %v", key, err)
		}
		c.Add(key, e)
	}
	return expectDelim(dec, '}')
}

func parseEntry(raw json.RawMessage) (*Entry, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, err
	}

	e := &Entry{Localizations: make(map[string]Group)}
	for name, val := range members {
		var err error
		switch name {
		case "comment":
			err = json.Unmarshal(val, &e.Comment)
		case "extractionState":
			err = json.Unmarshal(val, &e.ExtractionState)
		case "shouldTranslate":
			var b bool
			err = json.Unmarshal(val, &b)
			e.ShouldTranslate = &b
		case "localizations":
			err = parseLocalizations(val, e)
		default:
			if e.extra == nil {
				e.extra = make(map[string]json.RawMessage)
			}
			e.extra[name] = val
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func parseLocalizations(raw json.RawMessage, e *Entry) error {
	var langs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &langs); err != nil {
		return err
	}
	for lang, val := range langs {
		g, err := parseGroup(val)
		if err != nil {
			return errs.Format("language %q: %v", lang, err)
		}
		e.Localizations[lang] = g
	}
	return nil
}

func parseGroup(raw json.RawMessage) (Group, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, err
	}

	if su, ok := members["stringUnit"]; ok {
		s := &Simple{}
		if err := json.Unmarshal(su, &s.Unit); err != nil {
			return nil, err
		}
		delete(members, "stringUnit")
		if len(members) > 0 {
			s.extra = members
		}
		return s, nil
	}

	vr, ok := members["variations"]
	if !ok {
		return nil, errs.Format("localization has neither stringUnit nor variations")
	}
	delete(members, "variations")

	var variations map[string]json.RawMessage
	if err := json.Unmarshal(vr, &variations); err != nil {
		return nil, err
	}
	pr, ok := variations["plural"]
	if !ok {
		return nil, errs.Format("unsupported variations (only plural is supported)")
	}
	delete(variations, "plural")

	var plural map[string]struct {
		StringUnit *StringUnit `json:"stringUnit"`
	}
	if err := json.Unmarshal(pr, &plural); err != nil {
		return nil, err
	}

	p := NewPlural()
	for label, v := range plural {
		cat, ok := ParseCategory(label)
		if !ok {
			return nil, errs.Format("unknown plural category %q", label)
		}
		if v.StringUnit == nil {
			continue
		}
		p.Units[cat] = v.StringUnit
	}
	if len(members) > 0 {
		p.extra = members
	}
	if len(variations) > 0 {
		p.variationsExtra = variations
	}
	return p, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errs.Format("parsing catalog: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errs.Format("parsing catalog: expected '%c', got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", errs.Format("parsing catalog key: %v", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", errs.Format("parsing catalog: expected string key, got %T", tok)
	}
	return key, nil
}

package stats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/xcstrings"
)

const sample = `{"sourceLanguage":"en","strings":{
"greeting":{"localizations":{
  "en":{"stringUnit":{"state":"new","value":"Hello there"}},
  "nl":{"stringUnit":{"state":"translated","value":"Hallo daar"}},
  "de":{"stringUnit":{"state":"new","value":""}}}},
"items":{"localizations":{
  "en":{"variations":{"plural":{
    "one":{"stringUnit":{"state":"translated","value":"%lld item"}},
    "other":{"stringUnit":{"state":"translated","value":"%lld items"}}}}},
  "nl":{"variations":{"plural":{
    "one":{"stringUnit":{"state":"translated","value":"%lld stuk"}},
    "other":{"stringUnit":{"state":"needs_review","value":"%lld stuks"}}}}}}},
"inlined":{"localizations":{
  "nl":{"stringUnit":{"state":"translated","value":"Ingebed"}}}}
},"version":"1.0"}`

func compute(t *testing.T, data string) *Report {
	t.Helper()
	cat, err := xcstrings.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, err := Compute(cat, cat.View())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return r
}

func TestCompute(t *testing.T) {
	r := compute(t, sample)

	if r.BaseLanguage != "en" {
		t.Errorf("BaseLanguage = %q, want en", r.BaseLanguage)
	}

	want := []Language{
		// greeting new (1), items shape from en (2), inlined absent from en (1)
		{LanguageCode: "de", WordCount: 0, LocalizedKeys: 0, NotLocalizedKeys: 4},
		// source language is always localized; inlined is missing (1)
		{LanguageCode: "en", WordCount: 6, LocalizedKeys: 3, NotLocalizedKeys: 1},
		{LanguageCode: "nl", WordCount: 7, LocalizedKeys: 3, NotLocalizedKeys: 1},
	}
	if len(r.Languages) != len(want) {
		t.Fatalf("got %d languages, want %d: %+v", len(r.Languages), len(want), r.Languages)
	}
	for i, w := range want {
		if r.Languages[i] != w {
			t.Errorf("Languages[%d] = %+v, want %+v", i, r.Languages[i], w)
		}
	}
}

func TestComputeNilView(t *testing.T) {
	cat, err := xcstrings.Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	r, err := Compute(cat, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(r.Languages) != 3 {
		t.Fatalf("got %d languages, want 3", len(r.Languages))
	}
}

func TestComputeWithoutSourceLocalizations(t *testing.T) {
	r := compute(t, `{"sourceLanguage":"en","strings":{
"a":{"localizations":{"fr":{"stringUnit":{"state":"translated","value":"A"}}}},
"b":{},
"c":{"localizations":{"de":{"variations":{"plural":{
  "one":{"stringUnit":{"state":"new","value":""}}}}}}}
},"version":"1.0"}`)

	de, ok := r.Find("de")
	if !ok {
		t.Fatal("Find(de) not found")
	}
	if de.LocalizedKeys != 0 || de.NotLocalizedKeys != 3 {
		t.Errorf("de = %+v, want 0 localized, 3 not localized", de)
	}
	fr, _ := r.Find("fr")
	if fr.LocalizedKeys != 1 || fr.NotLocalizedKeys != 2 {
		t.Errorf("fr = %+v, want 1 localized, 2 not localized", fr)
	}
	if _, ok := r.Find("en"); ok {
		t.Error("Find(en) found a language without localizations")
	}
}

// Every catalog key is counted exactly once per language, either from the
// language's own entries or from the missing-key pass.
func TestComputeKeySetInvariant(t *testing.T) {
	cat, err := xcstrings.Parse([]byte(`{"sourceLanguage":"en","strings":{
"a":{"localizations":{
  "en":{"stringUnit":{"state":"translated","value":"A"}},
  "fr":{"stringUnit":{"state":"translated","value":"A"}}}},
"b":{"localizations":{
  "en":{"stringUnit":{"state":"translated","value":"B"}}}},
"c":{"localizations":{
  "en":{"stringUnit":{"state":"translated","value":"C"}},
  "de":{"stringUnit":{"state":"new","value":""}}}},
"d":{}
},"version":"1.0"}`))
	if err != nil {
		t.Fatal(err)
	}

	r, err := Compute(cat, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for _, l := range r.Languages {
		if got := l.Total(); got != len(cat.Strings) {
			t.Errorf("%s: Total() = %d, want %d", l.LanguageCode, got, len(cat.Strings))
		}
	}
}

func TestComputeUnknownKey(t *testing.T) {
	cat := xcstrings.New("en")
	cat.Add("a", &xcstrings.Entry{})

	view := &xcstrings.View{Languages: map[string]*xcstrings.Localization{
		"en": {Entries: []xcstrings.ViewEntry{
			{Key: "ghost", Translation: &xcstrings.Simple{}},
		}},
	}}
	_, err := Compute(cat, view)
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("Compute error = %v, want validation error", err)
	}
	if want := "No key found for: ghost"; err.Error() != want {
		t.Fatalf("Compute error = %q, want %q", err, want)
	}
}

func TestComputeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Localizable.xcstrings")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := ComputeFile(path)
	if err != nil {
		t.Fatalf("ComputeFile: %v", err)
	}
	if len(r.Languages) != 3 {
		t.Errorf("got %d languages, want 3", len(r.Languages))
	}

	if _, err := ComputeFile(filepath.Join(t.TempDir(), "missing.xcstrings")); !errors.Is(err, errs.ErrIO) {
		t.Errorf("ComputeFile(missing) error = %v, want io error", err)
	}
}

package android

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minios-linux/xcdocx/xcstrings"
)

// ---------------------------------------------------------------------------
// Format and escaping
// ---------------------------------------------------------------------------

func TestConvertFormat(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello", "Hello"},
		{"Hello %@", "Hello %s"},
		{"%lld items", "%d items"},
		{"%ld left", "%d left"},
		{"%1$@ and %2$@", "%1$s and %2$s"},
		{"%@ has %lld items", "%1$s has %2$d items"},
		{"100%% done", "100%% done"},
		{"%.2f km", "%.2f km"},
		{"%2$lld of %1$lld", "%2$d of %1$d"},
		{"% 5d", "% 5d"},
		{"%@ is 100% done", "%s is 100% done"},
		{"Save 20% each %lld items", "Save 20% each %d items"},
		{"%@ and 100% of %lld", "%1$s and 100% of %2$d"},
	}
	for _, tc := range tests {
		if got := ConvertFormat(tc.in); got != tc.want {
			t.Errorf("ConvertFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"Don't", `Don\'t`},
		{`Don\'t`, `Don\\\'t`},
		{`a\b`, `a\\b`},
		{"C:\\dir\n", `C:\\dir\n`},
		{"a < b & c", "a &lt; b &amp; c"},
		{`say "hi"`, `say \"hi\"`},
		{"one\ntwo", `one\ntwo`},
		{"@home", `\@home`},
		{"?what", `\?what`},
	}
	for _, tc := range tests {
		if got := escapeValue(tc.in); got != tc.want {
			t.Errorf("escapeValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Resource names and paths
// ---------------------------------------------------------------------------

func TestResourceNames(t *testing.T) {
	names := ResourceNames([]string{"Hello World!", "hello_world", "%lld items", "42 answers", "", "app name"})

	want := map[string]string{
		"Hello World!": "hello_world",
		"hello_world":  "hello_world_2",
		"%lld items":   "lld_items",
		"42 answers":   "key_42_answers",
		"":             "key",
		"app name":     "app_name_2",
	}
	for k, w := range want {
		if got := names[k]; got != w {
			t.Errorf("ResourceNames[%q] = %q, want %q", k, got, w)
		}
	}
}

func TestLocaleDirName(t *testing.T) {
	tests := []struct {
		lang     string
		isSource bool
		want     string
	}{
		{"en", true, "values"},
		{"nl", false, "values-nl"},
		{"pt-BR", false, "values-pt-rBR"},
		{"es-419", false, "values-es-r419"},
		{"zh-Hans", false, "values-b+zh+Hans"},
	}
	for _, tc := range tests {
		if got := LocaleDirName(tc.lang, tc.isSource); got != tc.want {
			t.Errorf("LocaleDirName(%q, %v) = %q, want %q", tc.lang, tc.isSource, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

const sample = `{"sourceLanguage":"en","strings":{
"greeting":{"comment":"Shown on launch","localizations":{
  "en":{"stringUnit":{"state":"translated","value":"Hello %@"}},
  "nl":{"stringUnit":{"state":"translated","value":"Hallo %@"}},
  "de":{"stringUnit":{"state":"new","value":""}}}},
"items":{"localizations":{
  "en":{"variations":{"plural":{
    "other":{"stringUnit":{"state":"translated","value":"%lld items"}},
    "one":{"stringUnit":{"state":"translated","value":"%lld item"}}}}},
  "nl":{"variations":{"plural":{
    "one":{"stringUnit":{"state":"translated","value":"%lld stuk"}},
    "other":{"stringUnit":{"state":"new","value":""}}}}}}}
},"version":"1.0"}`

func parse(t *testing.T) *xcstrings.Catalog {
	t.Helper()
	c, err := xcstrings.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

func TestFromLocalization_Source(t *testing.T) {
	c := parse(t)
	f, err := FromLocalization(c.View().Language("en"), ResourceNames(c.Keys()), true)
	if err != nil {
		t.Fatalf("FromLocalization: %v", err)
	}

	want := `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <!-- Shown on launch -->
    <string name="greeting">Hello %s</string>
    <plurals name="items">
        <item quantity="one">%d item</item>
        <item quantity="other">%d items</item>
    </plurals>
</resources>
`
	if got := string(f.Marshal()); got != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestFromLocalization_SkipsUntranslated(t *testing.T) {
	c := parse(t)
	names := ResourceNames(c.Keys())

	f, err := FromLocalization(c.View().Language("nl"), names, false)
	if err != nil {
		t.Fatalf("FromLocalization: %v", err)
	}
	out := string(f.Marshal())
	if !strings.Contains(out, `<item quantity="one">%d stuk</item>`) {
		t.Errorf("missing translated plural item:\n%s", out)
	}
	if strings.Contains(out, `quantity="other"`) {
		t.Errorf("untranslated plural item written:\n%s", out)
	}

	f, err = FromLocalization(c.View().Language("de"), names, false)
	if err != nil {
		t.Fatalf("FromLocalization: %v", err)
	}
	if len(f.Entries) != 0 {
		t.Errorf("de: got %d entries, want none", len(f.Entries))
	}
}

func TestFromLocalization_UnknownKey(t *testing.T) {
	loc := &xcstrings.Localization{Entries: []xcstrings.ViewEntry{
		{Key: "ghost", Translation: &xcstrings.Simple{}},
	}}
	if _, err := FromLocalization(loc, map[string]string{}, true); err == nil {
		t.Fatal("expected error for a key without resource name")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	res, err := Write(parse(t), Options{WriteIn: dir, AppName: "Bob's App"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	wantPaths := []Written{
		{LanguageCode: "de", Path: filepath.Join(dir, "values-de", "strings.xml")},
		{LanguageCode: "en", Path: filepath.Join(dir, "values", "strings.xml")},
		{LanguageCode: "nl", Path: filepath.Join(dir, "values-nl", "strings.xml")},
	}
	if len(res.WrittenXMLs) != len(wantPaths) {
		t.Fatalf("WrittenXMLs = %+v", res.WrittenXMLs)
	}
	for i, w := range wantPaths {
		if res.WrittenXMLs[i] != w {
			t.Errorf("WrittenXMLs[%d] = %+v, want %+v", i, res.WrittenXMLs[i], w)
		}
		if _, err := os.Stat(w.Path); err != nil {
			t.Errorf("%s not written: %v", w.Path, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "values", "strings.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<string name="app_name" translatable="false">Bob\'s App</string>`) {
		t.Errorf("source file lacks app_name:\n%s", data)
	}

	data, err = os.ReadFile(filepath.Join(dir, "values-nl", "strings.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "app_name") {
		t.Errorf("app_name written to a translation:\n%s", data)
	}
	if !strings.Contains(string(data), `<string name="greeting">Hallo %s</string>`) {
		t.Errorf("nl greeting missing:\n%s", data)
	}
}

func TestWrite_RequiresDirectory(t *testing.T) {
	if _, err := Write(parse(t), Options{}); err == nil {
		t.Fatal("expected error without WriteIn")
	}
}

package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/table"
)

func sampleDoc() *table.Document {
	header := table.NewRow("Key", "Comment", "Variation", "en", "nl")
	header.Header = true
	return &table.Document{Tables: []*table.Table{{Rows: []table.Row{
		header,
		table.NewRow("greeting", "Shown on launch", "N/A", "Hi", ""),
		table.NewRow("poem", "", "N/A", "Roses are red,\n  violets are blue", "Rozen zijn rood,\n\n  <b>&</b> "),
	}}}}
}

func rowTexts(t *table.Table) [][]string {
	var out [][]string
	for _, r := range t.Rows {
		out = append(out, r.Texts())
	}
	return out
}

func TestDocxRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nl.docx")
	if err := Write(sampleDoc(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(got.Tables))
	}
	if want := rowTexts(sampleDoc().Tables[0]); !reflect.DeepEqual(rowTexts(got.Tables[0]), want) {
		t.Fatalf("rows = %q\nwant %q", rowTexts(got.Tables[0]), want)
	}
	if !got.Tables[0].Rows[0].Header {
		t.Error("header row lost its header flag")
	}
	if got.Tables[0].Rows[1].Header {
		t.Error("data row marked as header")
	}
}

// mainPartXML writes doc and returns its word/document.xml.
func mainPartXML(t *testing.T, doc *table.Document) string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteDocx(&buf, doc); err != nil {
		t.Fatalf("WriteDocx: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != mainPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	t.Fatalf("%s not written", mainPart)
	return ""
}

func TestDocxPreserveMarker(t *testing.T) {
	xml := mainPartXML(t, sampleDoc())
	if !strings.Contains(xml, `<w:t xml:space="preserve">  violets are blue</w:t>`) {
		t.Errorf("leading whitespace line not marked preserve:\n%s", xml)
	}
	if !strings.Contains(xml, `<w:t>Roses are red,</w:t>`) {
		t.Errorf("plain line should not be marked preserve:\n%s", xml)
	}
	if !strings.Contains(xml, `&lt;b&gt;&amp;&lt;/b&gt;`) {
		t.Errorf("markup not escaped:\n%s", xml)
	}
	if !strings.Contains(xml, "<w:b>") {
		t.Errorf("header row not bold:\n%s", xml)
	}
}

func TestDocxKeepsShortRows(t *testing.T) {
	doc := &table.Document{Tables: []*table.Table{{Rows: []table.Row{
		table.NewRow("Key", "Variation", "nl"),
		table.NewRow("greeting", "N/A"),
	}}}}
	var buf bytes.Buffer
	if err := WriteDocx(&buf, doc); err != nil {
		t.Fatalf("WriteDocx: %v", err)
	}
	got, err := ReadDocx(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadDocx: %v", err)
	}
	if n := len(got.Tables[0].Rows[1].Cells); n != 2 {
		t.Fatalf("short row has %d cells, want 2", n)
	}
}

func docxWith(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create(mainPart)
	if err != nil {
		t.Fatal(err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`
	if _, err := fw.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadDocx_WordQuirks(t *testing.T) {
	// Split runs, a bookmark, a line break, paragraph tab stops and a nested
	// table inside a cell.
	body := `<w:p><w:r><w:t>Intro text</w:t></w:r></w:p>` +
		`<w:tbl><w:tr>` +
		`<w:tc><w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>Ke</w:t></w:r><w:bookmarkStart w:id="0"/><w:r><w:t>y</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>one</w:t><w:br/><w:t>two</w:t></w:r></w:p><w:p/><w:p><w:r><w:tab/><w:t>x</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:tbl><w:tr><w:tc><w:p><w:r><w:t>nested</w:t></w:r></w:p></w:tc></w:tr></w:tbl><w:p><w:r><w:t>outer</w:t></w:r></w:p></w:tc>` +
		`</w:tr></w:tbl>`

	data := docxWith(t, body)
	doc, err := ReadDocx(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ReadDocx: %v", err)
	}
	if len(doc.Tables) != 1 {
		t.Fatalf("tables = %d, want 1 (nested tables are not counted)", len(doc.Tables))
	}
	got := doc.Tables[0].Rows[0].Texts()
	want := []string{"Key", "one\ntwo\n\n\tx", "outer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("cells = %q, want %q", got, want)
	}
}

func TestReadDocx_CountsTables(t *testing.T) {
	tbl := `<w:tbl><w:tr><w:tc><w:p/></w:tc></w:tr></w:tbl>`
	data := docxWith(t, tbl+`<w:p/>`+tbl)
	doc, err := ReadDocx(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ReadDocx: %v", err)
	}
	if len(doc.Tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(doc.Tables))
	}
	if _, err := table.Extract(doc); !errors.Is(err, errs.ErrDocumentStructure) {
		t.Fatalf("Extract(two tables) error = %v, want structure error", err)
	}
}

func TestReadDocx_Corrupted(t *testing.T) {
	data := []byte("definitely not a zip")
	_, err := ReadDocx(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, errs.ErrDocumentStructure) {
		t.Fatalf("error = %v, want structure error", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_ = zw.Close()
	_, err = ReadDocx(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err == nil || !strings.Contains(err.Error(), mainPart) {
		t.Fatalf("error = %v, want missing %s", err, mainPart)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nl.csv")
	if err := Write(sampleDoc(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if want := rowTexts(sampleDoc().Tables[0]); !reflect.DeepEqual(rowTexts(got.Tables[0]), want) {
		t.Fatalf("rows = %q\nwant %q", rowTexts(got.Tables[0]), want)
	}
	if !got.Tables[0].Rows[0].Header {
		t.Error("first csv row should be the header")
	}
}

func TestReadCSV_BOMAndCRLF(t *testing.T) {
	data := "\xEF\xBB\xBFKey,Variation,nl\r\ngreeting,N/A,\"a\r\nb\"\r\n"
	doc, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	x, err := table.Extract(doc)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if x.LanguageCode != "nl" || x.Entries[0].Translated != "a\nb" {
		t.Fatalf("extraction = %+v", x)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	doc, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Tables) != 0 {
		t.Fatalf("tables = %d, want 0", len(doc.Tables))
	}
}

func TestFormatOf(t *testing.T) {
	if f, err := FormatOf("out/nl.DOCX"); err != nil || f != FormatDocx {
		t.Fatalf("FormatOf(docx) = %q, %v", f, err)
	}
	if f, err := FormatOf("nl.csv"); err != nil || f != FormatCSV {
		t.Fatalf("FormatOf(csv) = %q, %v", f, err)
	}
	if _, err := FormatOf("nl.xlsx"); err == nil {
		t.Fatal("FormatOf(xlsx) should fail")
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatal("ParseFormat(pdf) should fail")
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.docx"))
	if !errors.Is(err, errs.ErrIO) {
		t.Fatalf("error = %v, want io error", err)
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()

	docx := filepath.Join(dir, "nl.docx")
	if err := Write(sampleDoc(), docx); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "nl.csv")
	if err := Write(sampleDoc(), csvPath); err != nil {
		t.Fatal(err)
	}
	catalog := filepath.Join(dir, "Localizable.xcstrings")
	if err := os.WriteFile(catalog, []byte(`{"sourceLanguage":"en","strings":{},"version":"1.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "notes.json")
	if err := os.WriteFile(other, []byte(`{"strings":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	brokenDocx := filepath.Join(dir, "broken.docx")
	if err := os.WriteFile(brokenDocx, []byte("zip?"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want Kind
	}{
		{docx, KindDocx},
		{csvPath, KindCSV},
		{catalog, KindXCStrings},
		{other, KindOther},
		{brokenDocx, KindOther},
	}
	for _, tc := range tests {
		got, err := Detect(tc.path)
		if err != nil {
			t.Fatalf("Detect(%s): %v", filepath.Base(tc.path), err)
		}
		if got != tc.want {
			t.Errorf("Detect(%s) = %q, want %q", filepath.Base(tc.path), got, tc.want)
		}
	}

	if _, err := Detect(filepath.Join(dir, "missing.json")); !errors.Is(err, errs.ErrIO) {
		t.Fatalf("Detect(missing) error = %v, want io error", err)
	}
}

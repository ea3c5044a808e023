// Package officetest builds small office documents and fake conversion
// engines for tests.
package officetest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Entry is one archive member, written in slice order.
type Entry struct {
	Name string
	Body string
}

// Zip builds an archive with the entries in the given physical order.
func Zip(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("zip create %s: %v", e.Name, err)
		}
		if _, err := w.Write([]byte(e.Body)); err != nil {
			t.Fatalf("zip write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// SlideXML returns a slide part whose first shape holds title and whose
// second shape holds one paragraph per body line.
func SlideXML(title string, body ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
	if title != "" {
		b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/></p:nvSpPr><p:txBody><a:p><a:r><a:t>`)
		b.WriteString(html.EscapeString(title))
		b.WriteString(`</a:t></a:r></a:p></p:txBody></p:sp>`)
	}
	if len(body) > 0 {
		b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content 2"/></p:nvSpPr><p:txBody>`)
		for _, line := range body {
			b.WriteString(`<a:p><a:r><a:rPr lang="en-US"/><a:t>`)
			b.WriteString(html.EscapeString(line))
			b.WriteString(`</a:t></a:r></a:p>`)
		}
		b.WriteString(`</p:txBody></p:sp>`)
	}
	b.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return b.String()
}

// Slide is a title and body lines.
type Slide struct {
	Title string
	Body  []string
}

// Presentation builds a pptx archive with slides numbered from 1, written
// in reverse physical order so readers cannot rely on archive order.
func Presentation(t testing.TB, slides ...Slide) []byte {
	t.Helper()

	entries := []Entry{
		{Name: "[Content_Types].xml", Body: `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{Name: "ppt/presentation.xml", Body: `<?xml version="1.0"?><p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`},
	}
	for i := len(slides) - 1; i >= 0; i-- {
		entries = append(entries, Entry{
			Name: fmt.Sprintf("ppt/slides/slide%d.xml", i+1),
			Body: SlideXML(slides[i].Title, slides[i].Body...),
		})
	}
	return Zip(t, entries...)
}

// Paragraph is a document paragraph; Style "Heading1".."Heading9" or
// "Title" marks a heading.
type Paragraph struct {
	Style string
	Text  string
}

// Document builds a minimal docx archive.
func Document(t testing.TB, paragraphs ...Paragraph) []byte {
	t.Helper()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		b.WriteString(`<w:p>`)
		if p.Style != "" {
			b.WriteString(`<w:pPr><w:pStyle w:val="` + p.Style + `"/></w:pPr>`)
		}
		b.WriteString(`<w:r><w:t xml:space="preserve">`)
		b.WriteString(html.EscapeString(p.Text))
		b.WriteString(`</w:t></w:r></w:p>`)
	}
	b.WriteString(`</w:body></w:document>`)

	return Zip(t,
		Entry{Name: "[Content_Types].xml", Body: `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		Entry{Name: "word/document.xml", Body: b.String()},
	)
}

// Sheet is a named grid of cell values.
type Sheet struct {
	Name string
	Rows [][]any
}

// Workbook builds an xlsx archive with excelize.
func Workbook(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet %s: %v", s.Name, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				t.Fatalf("set row %s!%s: %v", s.Name, cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// TruncateEntry rewrites the archive data with member name cut to its
// first n bytes. Other members are copied unchanged.
func TruncateEntry(t testing.TB, data []byte, name string, n int) []byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip open: %v", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	found := false
	for _, f := range zr.File {
		if f.Name != name {
			if err := zw.Copy(f); err != nil {
				t.Fatalf("zip copy %s: %v", f.Name, err)
			}
			continue
		}
		found = true
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("zip open %s: %v", name, err)
		}
		body, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("zip read %s: %v", name, err)
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(body[:min(n, len(body))]); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if !found {
		t.Fatalf("zip has no member %s", name)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// Grid returns rows×cols cells labelled "r<row>c<col>".
func Grid(rows, cols int) [][]any {
	out := make([][]any, rows)
	for r := range out {
		out[r] = make([]any, cols)
		for c := range out[r] {
			out[r][c] = fmt.Sprintf("r%dc%d", r, c)
		}
	}
	return out
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

package browser

import (
	"strings"

	"github.com/alnah/go-office2pdf/internal/extract"
)

// asciiPunct is every character CommonMark allows to be backslash-escaped.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// escape collapses whitespace and backslash-escapes all ASCII punctuation
// so extracted text is never read as Markdown or HTML.
func escape(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune(asciiPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// pageBreak separates slides and sheets; the stylesheet turns it into a
// page break.
const pageBreak = "\n---\n\n"

// Markdown writes content as Markdown: one "##" section per slide or
// sheet, sheets as GFM tables, paragraphs with their heading levels.
func Markdown(c *extract.Content) string {
	var b strings.Builder
	switch c.Category {
	case extract.Presentation:
		for i, s := range c.Slides {
			if i > 0 {
				b.WriteString(pageBreak)
			}
			writeSlide(&b, s)
		}
	case extract.Spreadsheet:
		for i, s := range c.Sheets {
			if i > 0 {
				b.WriteString(pageBreak)
			}
			writeSheet(&b, s)
		}
	case extract.WordProcessing:
		for _, p := range c.Paragraphs {
			writeParagraph(&b, p)
		}
		if len(c.Paragraphs) == 0 {
			writeMarker(&b, "(Empty document)")
		}
	}
	return b.String()
}

func writeSlide(b *strings.Builder, s extract.Slide) {
	if s.Empty() {
		writeMarker(b, "(Empty slide)")
		return
	}
	b.WriteString("## " + escape(s.Title) + "\n\n")
	for _, line := range s.Body {
		b.WriteString("- " + escape(line) + "\n")
	}
	if len(s.Body) > 0 {
		b.WriteString("\n")
	}
}

// writeSheet emits a GFM table whose header is the first row.
func writeSheet(b *strings.Builder, s extract.Sheet) {
	b.WriteString("## " + escape(s.Name) + "\n\n")
	if len(s.Rows) == 0 || s.Width() == 0 {
		writeMarker(b, "(Empty sheet)")
		return
	}

	writeRow(b, s.Rows[0])
	b.WriteString("|" + strings.Repeat(" --- |", s.Width()) + "\n")
	for _, row := range s.Rows[1:] {
		writeRow(b, row)
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, row []string) {
	b.WriteString("|")
	for _, cell := range row {
		b.WriteString(" " + escape(cell) + " |")
	}
	b.WriteString("\n")
}

func writeParagraph(b *strings.Builder, p extract.Paragraph) {
	if p.Level > 0 {
		b.WriteString(strings.Repeat("#", min(p.Level, 6)) + " ")
	}
	b.WriteString(escape(p.Text) + "\n\n")
}

func writeMarker(b *strings.Builder, text string) {
	b.WriteString("*" + escape(text) + "*\n\n")
}

package render

import (
	"path/filepath"
	"strings"
)

// DefaultNote explains why a placeholder was produced.
const DefaultNote = "A full-fidelity rendering of this document requires an external " +
	"conversion engine such as LibreOffice. None was available or it failed, " +
	"and the document content could not be extracted."

// Placeholder describes the document a placeholder page stands in for.
type Placeholder struct {
	// Label is the human-readable category, e.g. "Presentation".
	Label string
	// Filename is the original file name; directories are stripped.
	Filename string
	// Note replaces DefaultNote when set.
	Note string
}

const maxFilenameLines = 3

// Placeholder renders a single portrait page naming the document. It
// only fails when the PDF writer itself fails.
func (r *Renderer) Placeholder(p Placeholder) ([]byte, error) {
	d := r.newDoc(false)
	d.pdf.AddPage()
	d.pdf.SetTitle(p.title(), true)

	label := strings.TrimSpace(p.Label)
	if label == "" {
		label = "Document"
	}
	note := p.Note
	if note == "" {
		note = DefaultNote
	}

	y := d.top() + d.usableHeight()*0.2

	d.font("B", 24)
	y = d.centered(label, y, 30) + 10

	d.font("", 13)
	name := filepath.Base(strings.TrimSpace(p.Filename))
	if name == "." || name == string(filepath.Separator) {
		name = "(unnamed file)"
	}
	lines := d.wrap(name, d.usableWidth())
	if len(lines) > maxFilenameLines {
		lines = lines[:maxFilenameLines]
	}
	for _, l := range lines {
		d.line(d.left(), y, d.usableWidth(), 18, l, "C")
		y += 18
	}
	y += 18

	d.font("", 11)
	d.pdf.SetTextColor(60, 60, 60)
	inset := d.usableWidth() * 0.1
	for _, l := range d.wrap(note, d.usableWidth()-2*inset) {
		d.line(d.left()+inset, y, d.usableWidth()-2*inset, 15, l, "C")
		y += 15
	}
	d.pdf.SetTextColor(0, 0, 0)

	d.infoBox(y+24, []string{
		"Generated: " + r.now().Format(r.timestampLayout),
		"Converter: " + Creator,
	})
	return d.output()
}

// infoBox draws lines inside a filled, bordered box centered on the page.
func (d *doc) infoBox(y float64, lines []string) {
	const (
		leading = 16.0
		pad     = 10.0
	)
	width := d.usableWidth() * 0.6
	x := d.left() + (d.usableWidth()-width)/2
	height := float64(len(lines))*leading + 2*pad

	d.pdf.SetFillColor(243, 243, 243)
	d.pdf.Rect(x, y, width, height, "FD")

	d.font("", 10)
	for i, l := range lines {
		d.line(x+pad, y+pad+float64(i)*leading, width-2*pad, leading, d.tr(l), "L")
	}
}

func (p Placeholder) title() string {
	name := filepath.Base(strings.TrimSpace(p.Filename))
	if name == "." || name == "" {
		return "Document preview"
	}
	return name
}

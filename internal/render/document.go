package render

import (
	"fmt"

	"github.com/alnah/go-office2pdf/internal/extract"
)

const (
	paragraphSize    = 11.0
	paragraphLeading = 15.0
	paragraphGap     = 6.0
)

// headingSizes are font sizes for heading levels 1 to 6.
var headingSizes = [...]float64{20, 16, 14, 13, 12, 11}

// EmptyDocumentMarker is drawn for documents without text.
const EmptyDocumentMarker = "(Empty document)"

// Document renders paragraphs on portrait pages numbered in the footer.
func (r *Renderer) Document(paragraphs []extract.Paragraph) ([]byte, error) {
	d := r.newDoc(false)
	d.pdf.AliasNbPages("")

	page := 0
	newPage := func() {
		if page > 0 {
			d.footer(fmt.Sprintf("Page %d of {nb}", page))
		}
		page++
		d.pdf.AddPage()
	}

	newPage()
	if len(paragraphs) == 0 {
		d.marker(EmptyDocumentMarker)
		d.footer(fmt.Sprintf("Page %d of {nb}", page))
		return d.output()
	}

	y := d.top()
	for i, p := range paragraphs {
		style, size, leading := "", paragraphSize, paragraphLeading
		if p.Level > 0 {
			style = "B"
			size = headingSizes[min(p.Level, len(headingSizes))-1]
			leading = size * 1.3
			if i > 0 {
				y += paragraphGap
			}
		}

		d.font(style, size)
		for _, l := range d.wrap(p.Text, d.usableWidth()) {
			if y+leading > d.bottom() {
				newPage()
				d.font(style, size)
				y = d.top()
			}
			d.line(d.left(), y, d.usableWidth(), leading, l, "L")
			y += leading
		}
		y += paragraphGap
	}
	d.footer(fmt.Sprintf("Page %d of {nb}", page))
	return d.output()
}

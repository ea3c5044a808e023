package render

import (
	"fmt"
	"strings"

	"github.com/alnah/go-office2pdf/internal/extract"
)

const (
	titleSize      = 28.0
	titleLeading   = 34.0
	bodySize       = 16.0
	bodyLeading    = 22.0
	bulletIndent   = 22.0
	titleBandRatio = 0.35
	titleBodyGap   = 14.0
)

// EmptySlideMarker is drawn on slides without any text.
const EmptySlideMarker = "(Empty slide)"

// Slides renders one landscape page per slide. A body that does not fit
// continues on extra pages whose footer is marked "(continued)". An empty
// list renders a single empty slide.
func (r *Renderer) Slides(slides []extract.Slide) ([]byte, error) {
	if len(slides) == 0 {
		slides = []extract.Slide{{}}
	}

	d := r.newDoc(true)
	n := len(slides)
	for i, s := range slides {
		d.slide(s, i+1, n)
	}
	return d.output()
}

func (d *doc) slide(s extract.Slide, index, total int) {
	footer := fmt.Sprintf("Slide %d of %d", index, total)
	d.pdf.AddPage()

	if s.Empty() {
		d.marker(EmptySlideMarker)
		d.footer(footer)
		return
	}

	y := d.slideTitle(s.Title)
	if len(s.Body) > 0 {
		y += titleBodyGap
	}

	d.font("", bodySize)
	textWidth := d.usableWidth() - bulletIndent
	bullet := d.tr("•")
	for _, item := range s.Body {
		for i, l := range d.wrap(item, textWidth) {
			if y+bodyLeading > d.bottom() {
				d.footer(footer)
				d.pdf.AddPage()
				d.font("", bodySize)
				footer = fmt.Sprintf("Slide %d of %d (continued)", index, total)
				y = d.top()
			}
			if i == 0 {
				d.line(d.left(), y, bulletIndent, bodyLeading, bullet, "C")
			}
			d.line(d.left()+bulletIndent, y, textWidth, bodyLeading, l, "L")
			y += bodyLeading
		}
	}
	d.footer(footer)
}

// slideTitle centers the title vertically in the upper band of the page
// and returns the y below it. A title longer than the band is cut at the
// last line that fits, which ends with an ellipsis.
func (d *doc) slideTitle(title string) float64 {
	band := d.usableHeight() * titleBandRatio
	if title == "" {
		return d.top() + band
	}

	lines := d.titleLines(title)
	height := float64(len(lines)) * titleLeading
	y := d.top() + max((band-height)/2, 0)
	for _, l := range lines {
		d.line(d.left(), y, d.usableWidth(), titleLeading, l, "C")
		y += titleLeading
	}
	return max(y, d.top()+band)
}

// titleLines sets the title font and wraps title to the lines that fit in
// the title band.
func (d *doc) titleLines(title string) []string {
	d.font("B", titleSize)
	maxLines := max(int(d.usableHeight()*titleBandRatio/titleLeading), 1)
	return d.fitLines(d.wrap(title, d.usableWidth()), maxLines, d.usableWidth())
}

// fitLines keeps at most maxLines translated lines. When lines are
// dropped, the last kept line is shortened until it and an ellipsis fit
// in width.
func (d *doc) fitLines(lines []string, maxLines int, width float64) []string {
	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	mark := d.tr(ellipsis)
	last := strings.TrimRight(lines[maxLines-1], " ")
	for last != "" && d.pdf.GetStringWidth(last+mark) > width {
		last = strings.TrimRight(last[:len(last)-1], " ")
	}
	lines[maxLines-1] = last + mark
	return lines
}

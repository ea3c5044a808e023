package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/alnah/go-office2pdf/internal/dateutil"
	"github.com/alnah/go-office2pdf/internal/extract"
)

// Sentinel errors for rendering.
var (
	ErrUnknownPageSize = errors.New("unknown page size")
	ErrRender          = errors.New("rendering PDF")
)

// Page sizes accepted by WithPageSize.
const (
	PageA4     = "A4"
	PageLetter = "Letter"
	PageLegal  = "Legal"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = PageA4

// Creator is written to the PDF info dictionary.
const Creator = "go-office2pdf"

// Layout constants, in points.
const (
	margin     = 36.0
	footerBand = 24.0
	footerSize = 9.0
	fontFamily = "Helvetica"
	ellipsis   = "…"
)

// ParsePageSize normalizes a page size name (case-insensitive).
func ParsePageSize(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a4":
		return PageA4, nil
	case "letter":
		return PageLetter, nil
	case "legal":
		return PageLegal, nil
	}
	return "", fmt.Errorf("%w: %q (valid: A4, Letter, Legal)", ErrUnknownPageSize, s)
}

// Renderer turns extracted content into PDF bytes. It holds no per-call
// state and is safe for concurrent use.
type Renderer struct {
	pageSize        string
	now             func() time.Time
	timestampFormat string
	timestampLayout string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPageSize sets the paper size: A4, Letter or Legal.
func WithPageSize(size string) Option {
	return func(r *Renderer) { r.pageSize = size }
}

// WithClock sets the time source for creation dates and placeholder
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTimestampFormat sets the placeholder timestamp pattern or preset
// (see dateutil.Presets).
func WithTimestampFormat(format string) Option {
	return func(r *Renderer) { r.timestampFormat = format }
}

// New creates a Renderer. It fails on an unknown page size or an invalid
// timestamp format so that rendering itself cannot.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	size, err := ParsePageSize(r.pageSize)
	if err != nil {
		return nil, err
	}
	r.pageSize = size

	layout, err := dateutil.Layout(r.timestampFormat)
	if err != nil {
		return nil, err
	}
	r.timestampLayout = layout
	return r, nil
}

// PageSize returns the normalized paper size.
func (r *Renderer) PageSize() string { return r.pageSize }

// Content renders c with the layout matching its category.
func (r *Renderer) Content(c *extract.Content) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil content", ErrRender)
	}
	switch c.Category {
	case extract.Presentation:
		return r.Slides(c.Slides)
	case extract.Spreadsheet:
		return r.Sheets(c.Sheets)
	case extract.WordProcessing:
		return r.Document(c.Paragraphs)
	}
	return nil, fmt.Errorf("%w: %w: %s", ErrRender, extract.ErrUnsupportedCategory, c.Category)
}

// doc wraps one fpdf document with the page geometry of its orientation.
type doc struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	w, h float64
}

func (r *Renderer) newDoc(landscape bool) *doc {
	orientation := "P"
	if landscape {
		orientation = "L"
	}

	pdf := fpdf.New(orientation, "pt", r.pageSize, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(Creator, false)
	pdf.SetCreationDate(r.now())
	pdf.SetDrawColor(90, 90, 90)
	pdf.SetLineWidth(0.5)

	w, h := pdf.GetPageSize()
	return &doc{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		w:   w,
		h:   h,
	}
}

func (d *doc) left() float64        { return margin }
func (d *doc) top() float64         { return margin }
func (d *doc) bottom() float64      { return d.h - margin - footerBand }
func (d *doc) usableWidth() float64 { return d.w - 2*margin }

// usableHeight is the content area between the top margin and the footer.
func (d *doc) usableHeight() float64 { return d.bottom() - d.top() }

func (d *doc) font(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

// wrap splits text into translated lines no wider than width in the
// current font.
func (d *doc) wrap(text string, width float64) []string {
	lines := d.pdf.SplitLines([]byte(d.tr(text)), width)
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, string(l))
	}
	return out
}

// line draws an already translated line in a box of width w.
func (d *doc) line(x, y, w, h float64, text, align string) {
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, h, text, "", 0, align, false, 0, "")
}

// centered draws text centered across the usable width, wrapping as
// needed, and returns the y below the last line.
func (d *doc) centered(text string, y, lineHeight float64) float64 {
	for _, l := range d.wrap(text, d.usableWidth()) {
		d.line(d.left(), y, d.usableWidth(), lineHeight, l, "C")
		y += lineHeight
	}
	return y
}

// marker draws a gray italic notice in the middle of the content area.
func (d *doc) marker(text string) {
	d.font("I", 18)
	d.pdf.SetTextColor(120, 120, 120)
	d.centered(text, d.top()+d.usableHeight()/2-11, 22)
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *doc) footer(text string) {
	d.font("", footerSize)
	d.pdf.SetTextColor(110, 110, 110)
	d.line(d.left(), d.h-margin-footerSize-4, d.usableWidth(), footerSize+4, d.tr(text), "C")
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *doc) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// CellCapacity estimates how many characters fit in a column of width
// colWidth, assuming each character is half the font size wide.
func CellCapacity(colWidth, fontSize, pad float64) int {
	if fontSize <= 0 {
		return 0
	}
	n := int((colWidth - 2*pad) / (fontSize * 0.5))
	return max(n, 0)
}

// Truncate shortens s to at most capacity runes, ending with an ellipsis
// when anything was cut.
func Truncate(s string, capacity int) string {
	if utf8.RuneCountInString(s) <= capacity {
		return s
	}
	if capacity <= 0 {
		return ""
	}
	runes := []rune(s)
	return string(runes[:capacity-1]) + ellipsis
}

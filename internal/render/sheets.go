package render

import (
	"fmt"
	"math"

	"github.com/alnah/go-office2pdf/internal/extract"
)

// Grid geometry, in points.
const (
	SheetFontSize   = 9.0
	SheetRowHeight  = 16.0
	SheetCellPad    = 3.0
	SheetHeaderBand = 30.0

	sheetNameSize = 13.0
	frameWidth    = 1.2
)

// EmptySheetMarker is drawn for worksheets without cells.
const EmptySheetMarker = "(Empty sheet)"

// RowsPerPage is the number of grid rows that fit under the sheet header
// in a content area of the given height. The page break falls before the
// row with this index.
func RowsPerPage(usableHeight float64) int {
	n := int(math.Floor((usableHeight - SheetHeaderBand) / SheetRowHeight))
	return max(n, 1)
}

// Sheets renders each worksheet as a new section of landscape pages. All
// columns of a sheet share the usable width equally and every page of a
// sheet holds the same number of rows.
func (r *Renderer) Sheets(sheets []extract.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		sheets = []extract.Sheet{{}}
	}

	d := r.newDoc(true)
	for i, s := range sheets {
		d.sheet(s, i+1, len(sheets))
	}
	return d.output()
}

func (d *doc) sheet(s extract.Sheet, index, total int) {
	footer := fmt.Sprintf("Sheet %d of %d", index, total)

	if len(s.Rows) == 0 || s.Width() == 0 {
		d.pdf.AddPage()
		d.sheetHeader(s.Name, false)
		d.marker(EmptySheetMarker)
		d.footer(footer)
		return
	}

	perPage := RowsPerPage(d.usableHeight())
	colWidth := d.usableWidth() / float64(s.Width())
	capacity := CellCapacity(colWidth, SheetFontSize, SheetCellPad)

	for start := 0; start < len(s.Rows); start += perPage {
		end := min(start+perPage, len(s.Rows))
		continued := start > 0

		d.pdf.AddPage()
		d.sheetHeader(s.Name, continued)
		d.grid(s.Rows[start:end], colWidth, capacity)
		if continued {
			d.footer(footer + " (continued)")
		} else {
			d.footer(footer)
		}
	}
}

func (d *doc) sheetHeader(name string, continued bool) {
	if name == "" {
		name = "Sheet"
	}
	if continued {
		name += " (continued)"
	}
	d.font("B", sheetNameSize)
	d.line(d.left(), d.top(), d.usableWidth(), SheetHeaderBand-8, d.tr(Truncate(name, 120)), "C")
}

// grid draws bordered cells row by row and frames the table region.
func (d *doc) grid(rows [][]string, colWidth float64, capacity int) {
	top := d.top() + SheetHeaderBand
	y := top

	d.pdf.SetCellMargin(SheetCellPad)
	d.font("", SheetFontSize)
	for _, row := range rows {
		x := d.left()
		for _, cell := range row {
			d.pdf.SetXY(x, y)
			d.pdf.CellFormat(colWidth, SheetRowHeight, d.tr(Truncate(cell, capacity)), "1", 0, "L", false, 0, "")
			x += colWidth
		}
		y += SheetRowHeight
	}

	d.pdf.SetLineWidth(frameWidth)
	d.pdf.Rect(d.left(), top, d.usableWidth(), y-top, "D")
	d.pdf.SetLineWidth(0.5)
}

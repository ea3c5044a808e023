package render

// SheetRowsPerPage is RowsPerPage for this renderer's landscape pages.
func (r *Renderer) SheetRowsPerPage() int {
	return RowsPerPage(r.newDoc(true).usableHeight())
}

// SlideTitleLayout draws title on a fresh landscape page and reports the
// drawn lines, the y below them and the bottom of the content area.
func (r *Renderer) SlideTitleLayout(title string) (lines []string, end, bottom float64) {
	d := r.newDoc(true)
	d.pdf.AddPage()
	lines = d.titleLines(title)
	end = d.slideTitle(title)
	return lines, end, d.bottom()
}

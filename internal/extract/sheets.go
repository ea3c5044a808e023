package extract

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/alnah/go-office2pdf/internal/container"
)

// Sheet is one worksheet as display strings. Every row has Width cells.
type Sheet struct {
	Name string
	Rows [][]string
}

// Width is the number of columns in the sheet.
func (s Sheet) Width() int {
	if len(s.Rows) == 0 {
		return 0
	}
	return len(s.Rows[0])
}

// Sheets reads every worksheet of an xlsx workbook in workbook order. A
// worksheet that cannot be read yields an empty sheet.
func Sheets(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", container.ErrMalformed, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", container.ErrMalformed)
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			sheets = append(sheets, Sheet{Name: name})
			continue
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rectangular(rows)})
	}
	return sheets, nil
}

// rectangular pads every row to the widest row. excelize already keeps
// interior empty cells; only trailing ones are missing.
func rectangular(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if width == 0 {
		return nil
	}

	out := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) == width {
			out[i] = r
			continue
		}
		padded := make([]string, width)
		copy(padded, r)
		out[i] = padded
	}
	return out
}

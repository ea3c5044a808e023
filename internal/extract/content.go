package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-office2pdf/internal/container"
)

// ErrUnsupportedCategory is returned for categories with no extractor.
var ErrUnsupportedCategory = errors.New("unsupported document category")

// Content is the structured content of one document. Only the field
// matching Category is populated.
type Content struct {
	Category   Category
	Slides     []Slide
	Sheets     []Sheet
	Paragraphs []Paragraph
}

// FromBytes extracts the structured content of an office document held
// in memory. Container-level failures wrap container.ErrMalformed.
func FromBytes(ctx context.Context, data []byte, category Category) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := &Content{Category: category}
	switch category {
	case Presentation:
		parts, err := container.ParsePartsBytes(data, container.SlidePattern)
		if err != nil {
			return nil, err
		}
		content.Slides = Slides(parts)

	case Spreadsheet:
		sheets, err := Sheets(data)
		if err != nil {
			return nil, err
		}
		content.Sheets = sheets

	case WordProcessing:
		parts, err := container.ParsePartsBytes(data, container.DocumentPattern)
		if errors.Is(err, container.ErrMalformed) {
			// OpenDocument text keeps its body in content.xml.
			parts, err = container.ParsePartsBytes(data, container.ODFContentPattern)
		}
		if err != nil {
			return nil, err
		}
		content.Paragraphs = Document(parts)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCategory, category)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return content, nil
}

package extract

import (
	"strconv"
	"strings"

	"github.com/alnah/go-office2pdf/internal/container"
)

// Paragraph is one block of running text. Level is 0 for body text and
// 1..6 for headings.
type Paragraph struct {
	Text  string
	Level int
}

// Document extracts paragraphs from word-processing parts (WordprocessingML
// w:p, OpenDocument text:p and text:h). Unparsable parts are skipped.
func Document(parts []container.Part) []Paragraph {
	var out []Paragraph
	for _, part := range parts {
		if part.Err != nil {
			continue
		}
		root, err := container.Parse(part.Raw)
		if err != nil {
			continue
		}
		out = append(out, paragraphs(root)...)
	}
	return out
}

func paragraphs(root *container.Element) []Paragraph {
	var out []Paragraph
	container.Walk(root, func(n container.Node) bool {
		el, ok := n.(*container.Element)
		if !ok || (el.Name.Local != "p" && el.Name.Local != "h") {
			return true
		}

		text := strings.TrimSpace(strings.Join(container.Texts(el), ""))
		if text != "" {
			out = append(out, Paragraph{Text: text, Level: headingLevel(el)})
		}
		return false
	})
	return out
}

// headingLevel reads text:outline-level on ODF headings and w:pStyle on
// WordprocessingML paragraphs.
func headingLevel(el *container.Element) int {
	if el.Name.Local == "h" {
		if v, ok := el.AttrValue("outline-level"); ok {
			if n, err := strconv.Atoi(v); err == nil && n >= 1 {
				return min(n, 6)
			}
		}
		return 1
	}

	level := 0
	container.Walk(el, func(n container.Node) bool {
		child, ok := n.(*container.Element)
		if !ok {
			return true
		}
		if child.Name.Local == "pStyle" {
			if v, ok := child.AttrValue("val"); ok {
				level = styleHeadingLevel(v)
			}
			return false
		}
		// Runs never carry paragraph styles.
		return child.Name.Local != "r"
	})
	return level
}

// styleHeadingLevel maps a paragraph style name to a heading level:
// "Title" → 1, "Subtitle" → 2, "Heading3" → 3, anything else → 0.
func styleHeadingLevel(style string) int {
	lower := strings.ToLower(style)

	switch lower {
	case "title":
		return 1
	case "subtitle":
		return 2
	}

	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if rest, ok := strings.CutPrefix(lower, prefix); ok {
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}

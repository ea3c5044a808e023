package extract

import (
	"strings"

	"github.com/alnah/go-office2pdf/internal/container"
)

// Slide is the text of one presentation slide. Title is the first text
// found on the slide, which is usually but not necessarily its title.
type Slide struct {
	Title string
	Body  []string
}

// Empty reports whether the slide has no text at all.
func (s Slide) Empty() bool {
	return s.Title == "" && len(s.Body) == 0
}

// Slides extracts one Slide per part, in part order. A part that cannot
// be read or parsed yields an empty slide.
func Slides(parts []container.Part) []Slide {
	slides := make([]Slide, 0, len(parts))
	for _, part := range parts {
		slides = append(slides, slideFromPart(part))
	}
	return slides
}

func slideFromPart(part container.Part) Slide {
	if part.Err != nil {
		return Slide{}
	}
	root, err := container.Parse(part.Raw)
	if err != nil {
		return Slide{}
	}

	lines := Dedupe(container.Texts(root))
	if len(lines) == 0 {
		return Slide{}
	}
	return Slide{Title: lines[0], Body: lines[1:]}
}

// Dedupe trims each string, drops empties and keeps only the first
// occurrence of each value.
func Dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

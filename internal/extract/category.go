package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Category is the broad class of an office document.
type Category int

// Supported categories. The zero value is unknown.
const (
	Unknown Category = iota
	WordProcessing
	Presentation
	Spreadsheet
)

var categoryNames = map[Category]string{
	WordProcessing: "word-processing",
	Presentation:   "presentation",
	Spreadsheet:    "spreadsheet",
}

var categoryLabels = map[Category]string{
	WordProcessing: "Word Processing Document",
	Presentation:   "Presentation",
	Spreadsheet:    "Spreadsheet",
}

// String returns the machine name of the category.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the machine name, so categories work as JSON keys.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names ParseCategory accepts.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown document category %q", text)
	}
	*c = parsed
	return nil
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	if s, ok := categoryLabels[c]; ok {
		return s
	}
	return "Document"
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Landscape reports whether the category renders on landscape pages.
func (c Category) Landscape() bool {
	return c == Presentation || c == Spreadsheet
}

// ParseCategory accepts machine names and a few common aliases.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "word-processing", "wordprocessing", "word", "document", "doc", "text":
		return WordProcessing, true
	case "presentation", "slides", "deck":
		return Presentation, true
	case "spreadsheet", "sheet", "workbook":
		return Spreadsheet, true
	}
	return Unknown, false
}

// Extensions maps supported file extensions to their category.
var Extensions = map[string]Category{
	".doc":  WordProcessing,
	".docx": WordProcessing,
	".docm": WordProcessing,
	".odt":  WordProcessing,
	".rtf":  WordProcessing,
	".ppt":  Presentation,
	".pptx": Presentation,
	".pptm": Presentation,
	".odp":  Presentation,
	".xls":  Spreadsheet,
	".xlsx": Spreadsheet,
	".xlsm": Spreadsheet,
	".ods":  Spreadsheet,
}

// DetectCategory returns the category implied by path's extension.
func DetectCategory(path string) Category {
	return Extensions[strings.ToLower(filepath.Ext(path))]
}

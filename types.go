package office2pdf

import (
	"maps"
	"runtime"
	"slices"
	"time"

	"github.com/alnah/go-office2pdf/internal/engine"
	"github.com/alnah/go-office2pdf/internal/extract"
)

// FormatCategory is the broad class of an office document.
type FormatCategory = extract.Category

// Supported format categories.
const (
	WordProcessing FormatCategory = extract.WordProcessing
	Presentation   FormatCategory = extract.Presentation
	Spreadsheet    FormatCategory = extract.Spreadsheet
)

// Categories lists the supported categories in display order.
var Categories = []FormatCategory{WordProcessing, Presentation, Spreadsheet}

// ParseFormatCategory accepts category names such as "presentation" or
// "spreadsheet" and a few aliases ("slides", "word").
func ParseFormatCategory(s string) (FormatCategory, bool) {
	return extract.ParseCategory(s)
}

// DetectCategory infers the category from a file extension. It returns
// the zero category for unsupported extensions.
func DetectCategory(path string) FormatCategory {
	return extract.DetectCategory(path)
}

// SupportedExtensions returns the accepted input extensions, sorted.
func SupportedExtensions() []string {
	return slices.Sorted(maps.Keys(extract.Extensions))
}

// EnginePresence reports whether a conversion engine is installed.
type EnginePresence = engine.Presence

// DefaultTimeout bounds each tier when Request.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Request describes one conversion.
type Request struct {
	InputPath  string
	OutputPath string
	// Category is detected from InputPath's extension when zero.
	Category FormatCategory
	// Timeout bounds each tier; zero means the converter's default.
	Timeout time.Duration
}

// Tier is one strategy in the fallback chain.
type Tier int

// Tiers in priority order.
const (
	TierEngine Tier = iota + 1
	TierEmbedded
	TierExtraction
	TierPlaceholder
)

var tierNames = map[Tier]string{
	TierEngine:      "engine",
	TierEmbedded:    "embedded",
	TierExtraction:  "extraction",
	TierPlaceholder: "placeholder",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the tier name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Attempt records one tier's outcome. Err is nil for the tier that
// succeeded and a *TierError otherwise.
type Attempt struct {
	Tier     Tier
	Err      error
	Duration time.Duration
}

// Result describes a successful conversion.
type Result struct {
	OutputPath string
	// Tier produced the output. It is diagnostic only.
	Tier     Tier
	Attempts []Attempt
	Duration time.Duration
}

// Worker sizing for batch and server use.
const (
	MinWorkers = 1
	MaxWorkers = 8

	// cpuDivisor leaves headroom for engine and browser child processes.
	cpuDivisor = 2
)

// ResolveWorkers returns the number of concurrent conversions to run.
// An explicit positive value wins; otherwise it is derived from
// GOMAXPROCS (container-aware with automaxprocs) and clamped.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinWorkers), MaxWorkers)
}

// Package dateutil turns user-friendly timestamp patterns into Go layouts.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFormat indicates an invalid timestamp pattern.
var ErrInvalidFormat = errors.New("invalid timestamp format")

// MaxFormatLength limits pattern length to prevent abuse.
const MaxFormatLength = 50

// DefaultFormat stamps placeholder pages.
const DefaultFormat = "YYYY-MM-DD HH:mm:ss"

// tokens maps pattern tokens to Go layout components, longest first for
// greedy matching. Matching is case-sensitive: MM is the month, mm the
// minute.
var tokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"A", "PM"},
	{"Z", "MST"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts for common patterns.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD HH:mm:ss",
	"date":     "YYYY-MM-DD",
	"european": "DD/MM/YYYY HH:mm",
	"us":       "MM/DD/YYYY hh:mm A",
	"long":     "MMMM D, YYYY HH:mm",
	"rfc3339":  "YYYY-MM-DD[T]HH:mm:ss",
}

// ParseFormat converts a pattern to Go's time layout.
// Tokens: YYYY YY MMMM MMM MM M DD D HH hh mm ss A Z.
// Bracketed text is copied literally: [at] stays "at".
func ParseFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidFormat, MaxFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range tokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Layout resolves a preset name (case-insensitive) or a pattern to a Go
// layout. An empty value means DefaultFormat.
func Layout(value string) (string, error) {
	if value == "" {
		value = DefaultFormat
	}
	if preset, ok := Presets[strings.ToLower(value)]; ok {
		value = preset
	}
	return ParseFormat(value)
}

// Format renders t with a preset or pattern.
func Format(t time.Time, value string) (string, error) {
	layout, err := Layout(value)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

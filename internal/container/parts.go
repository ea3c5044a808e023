package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// MaxPartSize caps the decompressed size of a single part.
const MaxPartSize = 32 << 20

// Sentinel errors for container operations.
var (
	ErrMalformed    = errors.New("malformed container")
	ErrPartTooLarge = errors.New("container part too large")
)

// Structural part patterns. The first capture group, when present, is the
// part's ordinal.
var (
	SlidePattern      = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	WorksheetPattern  = regexp.MustCompile(`^xl/worksheets/sheet(\d+)\.xml$`)
	DocumentPattern   = regexp.MustCompile(`^word/document\.xml$`)
	ODFContentPattern = regexp.MustCompile(`^content\.xml$`)
)

// Part is one structural XML entry of a container. Err is set when the
// entry could not be read; Raw is then empty.
type Part struct {
	Name    string
	Ordinal int
	Raw     []byte
	Err     error
}

// ParseParts opens inputPath as a zip archive and returns the entries
// matching pattern, sorted by ordinal. Callers that already hold the
// file's bytes use ParsePartsBytes.
func ParseParts(inputPath string, pattern *regexp.Regexp) ([]Part, error) {
	data, err := os.ReadFile(inputPath) // #nosec G304 -- caller-validated input path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return ParsePartsBytes(data, pattern)
}

// ParsePartsBytes is ParseParts over an in-memory archive.
func ParsePartsBytes(data []byte, pattern *regexp.Regexp) ([]Part, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var parts []Part
	for _, f := range zr.File {
		m := pattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		part := Part{Name: f.Name}
		if len(m) > 1 {
			// Overflowing ordinals sort first rather than failing the document.
			part.Ordinal, _ = strconv.Atoi(m[1])
		}
		part.Raw, part.Err = readEntry(f)
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no part matches %s", ErrMalformed, pattern)
	}

	sort.SliceStable(parts, func(i, j int) bool {
		if parts[i].Ordinal != parts[j].Ordinal {
			return parts[i].Ordinal < parts[j].Ordinal
		}
		return parts[i].Name < parts[j].Name
	})
	return parts, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > MaxPartSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrPartTooLarge, f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	// The header size can lie; enforce the cap on the stream as well.
	data, err := io.ReadAll(io.LimitReader(rc, MaxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	if len(data) > MaxPartSize {
		return nil, fmt.Errorf("%w: %s", ErrPartTooLarge, f.Name)
	}
	return data, nil
}

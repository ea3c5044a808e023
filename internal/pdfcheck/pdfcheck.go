// Package pdfcheck validates PDF files and reads back their page text.
package pdfcheck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"

	"github.com/alnah/go-office2pdf/internal/fileutil"
)

// Sentinel errors for PDF validation.
var (
	ErrInvalid = errors.New("invalid PDF")
	ErrNoPages = errors.New("PDF has no pages")
)

// Validate parses the file at path and returns its page count. Files that
// do not parse or have no pages wrap ErrInvalid or ErrNoPages.
func Validate(path string) (int, error) {
	ctx, err := read(path)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// PageTexts returns, for each page, the strings shown by text operators in
// content-stream order. Strings are decoded from WinAnsi.
func PageTexts(path string) ([][]string, error) {
	ctx, err := read(path)
	if err != nil {
		return nil, err
	}

	pages := make([][]string, 0, ctx.PageCount)
	for nr := 1; nr <= ctx.PageCount; nr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, nr)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrInvalid, nr, err)
		}
		var data []byte
		if r != nil {
			if data, err = io.ReadAll(r); err != nil {
				return nil, fmt.Errorf("reading page %d: %w", nr, err)
			}
		}
		pages = append(pages, ShownStrings(data))
	}
	return pages, nil
}

// Orientations reports, for each page, whether it is wider than tall.
func Orientations(path string) ([]bool, error) {
	ctx, err := read(path)
	if err != nil {
		return nil, err
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	out := make([]bool, len(dims))
	for i, d := range dims {
		out[i] = d.Width > d.Height
	}
	return out, nil
}

func read(path string) (*model.Context, error) {
	if err := fileutil.CheckPDF(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	f, err := os.Open(path) // #nosec G304 -- conversion output path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if ctx.PageCount < 1 {
		return nil, fmt.Errorf("%w: %s", ErrNoPages, path)
	}
	return ctx, nil
}

// showRe matches a literal string followed by the Tj operator.
var showRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*Tj`)

// ShownStrings extracts the literal strings passed to Tj in a decoded
// content stream.
func ShownStrings(stream []byte) []string {
	dec := charmap.Windows1252.NewDecoder()

	var out []string
	for _, m := range showRe.FindAllSubmatch(stream, -1) {
		raw := unescape(m[1])
		s, err := dec.Bytes(raw)
		if err != nil {
			s = raw
		}
		out = append(out, string(s))
	}
	return out
}

func unescape(b []byte) []byte {
	if !bytes.ContainsRune(b, '\\') {
		return b
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c != '\\' || i+1 == len(b) {
			out = append(out, c)
			continue
		}
		i++
		switch e := b[i]; e {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(b) && j < i+3 && b[j] >= '0' && b[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(string(b[i:j]), 8, 8)
			out = append(out, byte(v))
			i = j - 1
		default:
			out = append(out, e)
		}
	}
	return out
}

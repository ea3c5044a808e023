package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	office2pdf "github.com/alnah/go-office2pdf"
	"github.com/alnah/go-office2pdf/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrUnsupportedExtension = errors.New("unsupported document extension")
	ErrNoDocuments          = errors.New("no office documents found")
	ErrInvalidWorkerCount   = errors.New("invalid worker count")
	ErrDuplicateOutput      = errors.New("two inputs map to the same output")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverAll runs discoverFiles over every argument. A single file
// argument with an explicit .pdf output is only allowed alone.
func discoverAll(inputs []string, output string, anyExtension bool) ([]FileToConvert, error) {
	if len(inputs) > 1 && isPDFPath(output) {
		return nil, fmt.Errorf("%w: %s is a file but %d inputs were given", ErrUsage, output, len(inputs))
	}

	var files []FileToConvert
	seen := make(map[string]string)
	for _, in := range inputs {
		found, err := discoverFiles(in, output, anyExtension)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			key := filepath.Clean(f.OutputPath)
			if prev, ok := seen[key]; ok {
				return nil, fmt.Errorf("%w: %s and %s -> %s", ErrDuplicateOutput, prev, f.InputPath, f.OutputPath)
			}
			seen[key] = f.InputPath
			files = append(files, f)
		}
	}
	return files, nil
}

// discoverFiles finds all office documents to convert under inputPath.
// A file argument must have a supported extension unless anyExtension
// is set (an explicit --category); directories only yield supported files.
func discoverFiles(inputPath, outputDir string, anyExtension bool) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !anyExtension {
			if err := validateExtension(inputPath); err != nil {
				return nil, err
			}
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		// Office lock files (~$report.docx) and our own temp files.
		name := d.Name()
		if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, "."+fileutil.TempPrefix) {
			return nil
		}
		if !office2pdf.DetectCategory(path).Valid() {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for a document.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if isPDFPath(outputDir) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

func isPDFPath(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".pdf")
}

// validateExtension checks that the file has a supported office extension.
func validateExtension(path string) error {
	if !office2pdf.DetectCategory(path).Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > office2pdf.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, office2pdf.MaxWorkers)
	}
	return nil
}

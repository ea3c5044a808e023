package browser

import "errors"

// Sentinel errors for browser printing.
var (
	ErrNoBrowser      = errors.New("no browser binary found")
	ErrClosed         = errors.New("library is closed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrHTMLConversion = errors.New("HTML conversion failed")
)

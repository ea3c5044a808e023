// Package office2pdf converts office documents (word-processing,
// presentation, spreadsheet) to PDF and always produces a valid file.
//
// # Quick Start
//
// Create a converter, convert a file, and close when done:
//
//	conv, err := office2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	res, err := conv.Convert(ctx, office2pdf.Request{
//	    InputPath:  "deck.pptx",
//	    OutputPath: "deck.pdf",
//	})
//	if err != nil {
//	    log.Fatal(err) // only office2pdf.ErrConversionFailed or ErrInvalidRequest
//	}
//	fmt.Println("converted with", res.Tier)
//
// # Conversion Tiers
//
// Each request walks a fixed chain of tiers and stops at the first that
// produces a valid PDF:
//
//  1. Engine: LibreOffice (soffice) in headless mode, if installed.
//  2. Embedded: a locally installed headless Chromium prints the extracted
//     content.
//  3. Extraction: the document's XML container is parsed and the content
//     is laid out with a built-in PDF writer.
//  4. Placeholder: a single page naming the document.
//
// A failing tier is logged and the next one runs. Only a failure of the
// placeholder tier reaches the caller, as ErrConversionFailed. The tier
// that succeeded is reported in Result.Tier for diagnostics; callers
// should treat every tier's output the same.
//
// # Engine Discovery
//
// The engine is probed once per Converter and the answer is kept for its
// lifetime. Candidates come from a per-OS table (see WithEngineCandidates)
// after any explicit path (WithEnginePath or OFFICE2PDF_ENGINE).
//
// # Timeouts
//
// Each tier runs under Request.Timeout (DefaultTimeout when zero). When
// the engine exceeds it, its whole process group is killed before the
// next tier starts. The placeholder tier ignores cancellation.
//
// # Thread Safety
//
// A Converter is safe for concurrent use. The engine probe and the
// embedded browser are shared between calls.
package office2pdf

// Package render composes PDFs from extracted office content with
// go-pdf/fpdf.
//
// Four layouts are supported:
//
//   - Slides: one landscape page per slide, centered title, bulleted body,
//     continuation pages when the body overflows.
//   - Sheets: a uniform bordered grid per worksheet, paginated on a fixed
//     row height with the sheet name repeated on each page.
//   - Document: portrait pages of headings and wrapped paragraphs.
//   - Placeholder: a single page naming the document when nothing could be
//     extracted.
//
// Text is set in the core Helvetica font through a cp1252 translator;
// characters outside that code page are replaced. Column capacity is an
// estimate of half the font size per character, not real metrics.
package render

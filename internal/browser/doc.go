// Package browser prints extracted office content to PDF through a
// locally installed headless Chromium.
//
// Content is first written as Markdown with every punctuation character
// escaped, converted to HTML with goldmark, sanitized with bluemonday and
// wrapped in a fixed stylesheet before printing. The browser is never
// downloaded: a Library without an installed binary reports itself
// unavailable.
package browser

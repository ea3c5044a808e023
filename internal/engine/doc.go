// Package engine discovers and drives an external office conversion
// engine (LibreOffice soffice).
//
// Discovery is split in two: a PathResolver supplies ordered candidate
// binaries from a per-OS data table, and a Prober asks each candidate for
// its version once and memoizes the answer for its own lifetime. The
// LibreOffice adapter then runs headless conversions in an isolated
// profile and process group, so a timeout can always reclaim the whole
// process tree.
package engine

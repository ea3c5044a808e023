// Package container reads office documents stored as zip archives of XML
// parts (OOXML and OpenDocument).
//
// ParseParts selects the structural parts of a document by name pattern
// and orders them by the number embedded in their names, never by
// archive order. Parse turns one part into a small typed tree of
// elements and text runs that extractors can walk without knowing the
// format's schema.
package container

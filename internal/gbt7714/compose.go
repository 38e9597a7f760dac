// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gbt7714

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citation-engine/internal/bibtex"
)

// ErrorMarker prefixes a Compose result that is a failure description
// rather than a citation.
const ErrorMarker = "conversion error: "

// IsFailure reports whether a Compose result is a failure description.
func IsFailure(citation string) bool {
	return strings.HasPrefix(citation, ErrorMarker)
}

// Compose parses raw BibTeX and renders it as a GB/T 7714 citation. It
// never panics or returns an error: failures come back as a string starting
// with ErrorMarker.
func Compose(raw string) (citation string) {
	defer func() {
		if r := recover(); r != nil {
			citation = ErrorMarker + fmt.Sprint(r)
		}
	}()
	return FromRecord(bibtex.Parse(raw))
}

// FromRecord renders an already parsed record. The entry type is inferred
// from the fields present.
func FromRecord(r bibtex.Record) string {
	return FromRecordAs(r, bibtex.InferEntryType(r))
}

// FromRecordAs renders a record with an explicit entry type.
func FromRecordAs(r bibtex.Record, t bibtex.EntryType) string {
	parts := make([]string, 0, 3)

	if authors := FormatAuthors(r.Get("author")); authors != "" {
		parts = append(parts, authors)
	}
	if title := FormatTitle(r.Get("title"), t); title != "" {
		parts = append(parts, title)
	}
	venue := FormatVenue(Venue{
		Name:   r.First("journal", "booktitle"),
		Year:   r.Get("year"),
		Volume: r.Get("volume"),
		Issue:  r.First("number", "issue"),
		Pages:  r.Get("pages"),
		DOI:    r.Get("doi"),
	})
	if venue != "" {
		parts = append(parts, venue)
	}

	if len(parts) == 0 {
		return ErrorMarker + "no bibliographic fields"
	}
	return strings.Join(parts, " ")
}

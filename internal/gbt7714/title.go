// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gbt7714

import (
	"strings"

	"github.com/pdiddy/citation-engine/internal/bibtex"
)

// Literature-type tags.
const (
	TagJournal    = "[J]"
	TagConference = "[C]"
	TagBook       = "[M]"
	TagThesis     = "[D]"
	TagReport     = "[R]"
	TagPatent     = "[P]"
	TagOther      = "[Z]"
)

// TypeTag maps an entry type to its bracket tag. Unknown types map to [Z].
func TypeTag(t bibtex.EntryType) string {
	switch bibtex.ParseEntryType(string(t)) {
	case bibtex.TypeArticle:
		return TagJournal
	case bibtex.TypeInProceedings, bibtex.TypeConference:
		return TagConference
	case bibtex.TypeBook:
		return TagBook
	case bibtex.TypePhDThesis, bibtex.TypeMastersThesis:
		return TagThesis
	case bibtex.TypeTechReport:
		return TagReport
	case bibtex.TypePatent:
		return TagPatent
	default:
		return TagOther
	}
}

// FormatTitle returns "<title><tag>." with any trailing periods of the
// title removed. An empty title yields "".
func FormatTitle(title string, t bibtex.EntryType) string {
	title = strings.TrimRight(strings.TrimSpace(title), ". ")
	if title == "" {
		return ""
	}
	return title + TypeTag(t) + "."
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import "strings"

// EntryType is the literature type of an entry.
type EntryType string

const (
	TypeArticle       EntryType = "article"
	TypeInProceedings EntryType = "inproceedings"
	TypeConference    EntryType = "conference"
	TypeBook          EntryType = "book"
	TypePhDThesis     EntryType = "phdthesis"
	TypeMastersThesis EntryType = "mastersthesis"
	TypeTechReport    EntryType = "techreport"
	TypePatent        EntryType = "patent"
)

// ParseEntryType normalizes a type name such as "InProceedings".
func ParseEntryType(s string) EntryType {
	return EntryType(strings.ToLower(strings.TrimSpace(s)))
}

// InferEntryType derives the entry type from the fields present: an entry
// with a booktitle and no journal is a conference paper, anything else is
// treated as a journal article.
func InferEntryType(r Record) EntryType {
	if r.Has("booktitle") && !r.Has("journal") {
		return TypeInProceedings
	}
	return TypeArticle
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation-engine pipeline:
// catalog papers, reference edges, resolution results, and configuration.
package types

// Author identifies a paper author as returned by the catalog.
type Author struct {
	// AuthorID is the catalog's author identifier, when known.
	AuthorID string `json:"authorId,omitempty" yaml:"author_id,omitempty"`

	// Name is the author's display name.
	Name string `json:"name" yaml:"name"`
}

// Paper holds the catalog metadata of one paper together with its raw
// BibTeX citation and the GB/T 7714 citation derived from it.
type Paper struct {
	// ID is the catalog identifier (Semantic Scholar paperId).
	ID string `json:"paperId" yaml:"paper_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year; zero when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// CitationCount is the number of citing papers known to the catalog.
	CitationCount int `json:"citationCount,omitempty" yaml:"citation_count,omitempty"`

	// OpenAccessPDF is a direct PDF link, when the catalog has one.
	OpenAccessPDF string `json:"openAccessPdf,omitempty" yaml:"open_access_pdf,omitempty"`

	// BibTeX is the raw citation text supplied by the catalog.
	BibTeX string `json:"bibtex,omitempty" yaml:"bibtex,omitempty"`

	// GBT7714 is the formatted citation derived from BibTeX. It is empty
	// when the catalog supplied no citation text.
	GBT7714 string `json:"gbt7714,omitempty" yaml:"gbt7714,omitempty"`
}

// AuthorNames returns the authors' display names in order.
func (p Paper) AuthorNames() []string {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		names = append(names, a.Name)
	}
	return names
}

// ReferenceEdge links a citing paper to one paper it cites.
type ReferenceEdge struct {
	// CitingPaperID is the paper whose reference list produced the edge.
	CitingPaperID string `json:"citingPaperId" yaml:"citing_paper_id"`

	// CitedPaperID is empty when the catalog could not resolve the cited work.
	CitedPaperID string `json:"citedPaperId,omitempty" yaml:"cited_paper_id,omitempty"`

	// CitedTitle is the cited work's title as recorded on the edge.
	CitedTitle string `json:"citedTitle,omitempty" yaml:"cited_title,omitempty"`

	// Contexts holds the citing sentences, when available.
	Contexts []string `json:"contexts,omitempty" yaml:"contexts,omitempty"`
}

// NotFoundMessage is the Error value of a ResolutionResult whose title
// matched no paper.
const NotFoundMessage = "paper not found"

// ResolutionResult is the outcome of resolving a title to a paper and its
// enriched reference list.
type ResolutionResult struct {
	// MainPaper is nil when no paper matched the title.
	MainPaper *Paper `json:"main_paper" yaml:"main_paper"`

	// References holds the enriched cited papers; never nil.
	References []Paper `json:"references" yaml:"references"`

	// Error carries NotFoundMessage for an unmatched title.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Found reports whether the title matched a paper. A found result with no
// references is distinct from a not-found result.
func (r ResolutionResult) Found() bool {
	return r.MainPaper != nil
}

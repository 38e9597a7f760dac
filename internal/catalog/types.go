// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import "github.com/pdiddy/citation-engine/pkg/types"

// Semantic Scholar Graph API JSON structures. Nested objects are pointers
// because the API sends null for absent values.

type s2Paper struct {
	PaperID          string        `json:"paperId"`
	Title            string        `json:"title"`
	Abstract         string        `json:"abstract"`
	Year             int           `json:"year"`
	Venue            string        `json:"venue"`
	CitationCount    int           `json:"citationCount"`
	Authors          []s2Author    `json:"authors"`
	OpenAccessPDF    *s2OpenAccess `json:"openAccessPdf"`
	CitationStyles   *s2Styles     `json:"citationStyles"`
	PublicationVenue *s2Venue      `json:"publicationVenue"`
	Journal          *s2Journal    `json:"journal"`
	References       []s2PaperRef  `json:"references"`
}

type s2Author struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type s2OpenAccess struct {
	URL string `json:"url"`
}

type s2Styles struct {
	BibTeX string `json:"bibtex"`
}

type s2Venue struct {
	Name string `json:"name"`
}

type s2Journal struct {
	Name   string `json:"name"`
	Volume string `json:"volume"`
	Pages  string `json:"pages"`
}

// s2PaperRef is the short paper form inside a details response.
type s2PaperRef struct {
	PaperID string `json:"paperId"`
	Title   string `json:"title"`
}

type s2SearchResponse struct {
	Total  int       `json:"total"`
	Offset int       `json:"offset"`
	Data   []s2Paper `json:"data"`
}

type s2Reference struct {
	Contexts   []string `json:"contexts"`
	CitedPaper *s2Paper `json:"citedPaper"`
}

type s2ReferencesResponse struct {
	Offset int           `json:"offset"`
	Data   []s2Reference `json:"data"`
}

type s2BatchRequest struct {
	IDs []string `json:"ids"`
}

// Details is a paper together with the reference list embedded in a
// details lookup.
type Details struct {
	types.Paper `yaml:",inline"`

	References []types.ReferenceEdge `json:"references,omitempty" yaml:"references,omitempty"`
}

func (p s2Paper) toPaper() types.Paper {
	out := types.Paper{
		ID:            p.PaperID,
		Title:         p.Title,
		Year:          p.Year,
		Abstract:      p.Abstract,
		Venue:         p.Venue,
		CitationCount: p.CitationCount,
	}
	for _, a := range p.Authors {
		out.Authors = append(out.Authors, types.Author{AuthorID: a.AuthorID, Name: a.Name})
	}
	if out.Venue == "" && p.PublicationVenue != nil {
		out.Venue = p.PublicationVenue.Name
	}
	if out.Venue == "" && p.Journal != nil {
		out.Venue = p.Journal.Name
	}
	if p.OpenAccessPDF != nil {
		out.OpenAccessPDF = p.OpenAccessPDF.URL
	}
	if p.CitationStyles != nil {
		out.BibTeX = p.CitationStyles.BibTeX
	}
	return out
}

func (r s2Reference) toEdge(citingID string) types.ReferenceEdge {
	e := types.ReferenceEdge{CitingPaperID: citingID, Contexts: r.Contexts}
	if r.CitedPaper != nil {
		e.CitedPaperID = r.CitedPaper.PaperID
		e.CitedTitle = r.CitedPaper.Title
	}
	return e
}

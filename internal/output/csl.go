// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/bibtex"
	"github.com/pdiddy/citation-engine/internal/catalog"
	"github.com/pdiddy/citation-engine/internal/gbt7714"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form,
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps BibTeX entry types to CSL item types.
var cslTypes = map[bibtex.EntryType]string{
	bibtex.TypeArticle:       "article-journal",
	bibtex.TypeInProceedings: "paper-conference",
	bibtex.TypeConference:    "paper-conference",
	bibtex.TypeBook:          "book",
	bibtex.TypePhDThesis:     "thesis",
	bibtex.TypeMastersThesis: "thesis",
	bibtex.TypeTechReport:    "report",
	bibtex.TypePatent:        "patent",
}

func writeCSL(w io.Writer, v any) error {
	var papers []types.Paper
	switch x := v.(type) {
	case []types.Paper:
		papers = x
	case types.Paper:
		papers = []types.Paper{x}
	case *catalog.Details:
		if x != nil {
			papers = []types.Paper{x.Paper}
		}
	case types.ResolutionResult:
		if x.MainPaper != nil {
			papers = append(papers, *x.MainPaper)
		}
		papers = append(papers, x.References...)
	default:
		return fmt.Errorf("csl output does not support %T", v)
	}

	items := make([]CSLItem, 0, len(papers))
	for _, p := range papers {
		items = append(items, ToCSL(p))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding CSL: %w", err)
	}
	return enc.Close()
}

// ToCSL converts a catalog paper to a CSL item. Fields present in the
// paper's BibTeX take precedence over catalog metadata.
func ToCSL(p types.Paper) CSLItem {
	rec := bibtex.Parse(p.BibTeX)

	item := CSLItem{
		ID:             p.ID,
		Type:           "article-journal",
		Title:          p.Title,
		ContainerTitle: p.Venue,
		Abstract:       p.Abstract,
		URL:            p.OpenAccessPDF,
	}

	if rec.Len() > 0 {
		if t, ok := cslTypes[bibtex.InferEntryType(rec)]; ok {
			item.Type = t
		}
		if v := rec.First("journal", "booktitle"); v != "" {
			item.ContainerTitle = v
		}
		if item.Title == "" {
			item.Title = rec.Get("title")
		}
		item.Volume = rec.Get("volume")
		item.Issue = rec.First("number", "issue")
		item.Page = gbt7714.NormalizePages(rec.Get("pages"))
		item.DOI = rec.Get("doi")
	}

	year := p.Year
	if year == 0 {
		year, _ = strconv.Atoi(rec.Get("year"))
	}
	if year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}

	for _, name := range p.AuthorNames() {
		item.Author = append(item.Author, parseAuthorName(name))
	}
	return item
}

// parseAuthorName splits a full name on the last space: everything before
// is given, the last token is family. Single-token names use the literal
// field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

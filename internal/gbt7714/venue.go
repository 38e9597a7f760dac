// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gbt7714

import (
	"regexp"
	"strings"
)

// Venue holds the publication fields of one entry.
type Venue struct {
	Name   string // journal or proceedings title
	Year   string
	Volume string
	Issue  string
	Pages  string
	DOI    string
}

// dashRun matches a page-range separator: hyphens, en-dashes, em-dashes and
// the spaces around them.
var dashRun = regexp.MustCompile(`\s*[-\x{2013}\x{2014}]+\s*`)

// NormalizePages rewrites every dash variant in a page range to "-".
func NormalizePages(pages string) string {
	return dashRun.ReplaceAllString(strings.TrimSpace(pages), "-")
}

// FormatVenue joins the present clauses (venue name, year, volume(issue),
// pages) with ", " and ends the result with one period. A DOI is appended
// as " DOI:<doi>". Absent fields contribute nothing; with no clause and no
// DOI the result is "".
func FormatVenue(v Venue) string {
	var clauses []string

	if s := strings.TrimSpace(v.Name); s != "" {
		clauses = append(clauses, s)
	}
	if s := strings.TrimSpace(v.Year); s != "" {
		clauses = append(clauses, s)
	}
	if vol := strings.TrimSpace(v.Volume); vol != "" {
		if issue := strings.TrimSpace(v.Issue); issue != "" {
			vol += "(" + issue + ")"
		}
		clauses = append(clauses, vol)
	}
	if s := NormalizePages(v.Pages); s != "" {
		clauses = append(clauses, s)
	}

	doi := strings.TrimSpace(v.DOI)
	if len(clauses) == 0 {
		if doi == "" {
			return ""
		}
		return "DOI:" + doi
	}

	out := strings.TrimRight(strings.Join(clauses, ", "), ".") + "."
	if doi != "" {
		out += " DOI:" + doi
	}
	return out
}

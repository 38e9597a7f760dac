// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gbt7714 renders BibTeX records as GB/T 7714 citation strings:
// abbreviated authors, a title carrying a literature-type tag, and a venue
// clause with year, volume(issue), pages and DOI.
package gbt7714

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxListedAuthors is the number of authors printed before "et al.".
const maxListedAuthors = 3

// FormatAuthors converts a BibTeX author field ("A and B and C") into
// "Surname Initials" form joined by ", ". More than three authors are cut
// to the first three followed by ", et al.". An empty field yields "".
func FormatAuthors(field string) string {
	field = strings.Join(strings.Fields(field), " ")
	if field == "" {
		return ""
	}

	var names []string
	for _, raw := range strings.Split(field, " and ") {
		if name := formatName(raw); name != "" {
			names = append(names, name)
		}
	}

	if len(names) > maxListedAuthors {
		return strings.Join(names[:maxListedAuthors], ", ") + ", et al."
	}
	return strings.Join(names, ", ")
}

// formatName abbreviates one author. "Last, First Middle" and
// "First Middle Last" both become "Last F M"; a single token is returned
// unchanged.
func formatName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	if last, rest, ok := strings.Cut(name, ","); ok {
		last = strings.TrimSpace(last)
		given := strings.Fields(strings.ReplaceAll(rest, ",", " "))
		if last == "" {
			return name
		}
		if len(given) == 0 {
			return last
		}
		return last + " " + initials(given)
	}

	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return name
	}
	return tokens[len(tokens)-1] + " " + initials(tokens[:len(tokens)-1])
}

// initials returns the first letter of every token joined by spaces, with
// no periods.
func initials(tokens []string) string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		r, _ := utf8.DecodeRuneInString(tok)
		if r == utf8.RuneError {
			continue
		}
		out = append(out, string(r))
	}
	return strings.Join(out, " ")
}

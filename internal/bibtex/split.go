// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import "strings"

// SplitEntries cuts a bibliography into its entries. A new entry starts at
// each '@' outside braces. Text before the first '@' is dropped when any
// entry exists; input with no '@' is returned whole unless blank.
func SplitEntries(raw string) []string {
	var entries []string
	depth := 0
	start := -1

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '@':
			if depth > 0 {
				continue
			}
			if start >= 0 {
				entries = appendEntry(entries, raw[start:i])
			}
			start = i
		}
	}

	if start < 0 {
		return appendEntry(nil, raw)
	}
	return appendEntry(entries, raw[start:])
}

func appendEntry(entries []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return entries
	}
	return append(entries, s)
}

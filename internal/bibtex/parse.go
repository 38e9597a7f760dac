// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex extracts flat key/value fields from BibTeX entries.
//
// The scanner tracks brace depth, so a value such as
// title = {The {BERT} Model} keeps its inner braces instead of being cut at
// the first closing brace. It never fails: text that does not look like a
// field assignment is skipped.
package bibtex

import (
	"strings"
)

// Record holds the fields of one parsed entry, keyed by lower-cased field
// name. Absent fields are simply missing. A Record is immutable once parsed.
type Record struct {
	fields map[string]string
}

// Get returns the value of key, or "" when the field is absent.
func (r Record) Get(key string) string {
	return r.fields[strings.ToLower(key)]
}

// Has reports whether the field is present.
func (r Record) Has(key string) bool {
	_, ok := r.fields[strings.ToLower(key)]
	return ok
}

// First returns the value of the first present key, in order.
func (r Record) First(keys ...string) string {
	for _, k := range keys {
		if v := r.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Parse scans raw for field assignments of the form key = {value},
// key = "value" or key = bareword. Keys are lower-cased, values trimmed,
// and a repeated key keeps its last value.
func Parse(raw string) Record {
	fields := make(map[string]string)

	i := 0
	for i < len(raw) {
		if !isKeyByte(raw[i]) || (i > 0 && isKeyByte(raw[i-1])) {
			i++
			continue
		}

		keyEnd := i
		for keyEnd < len(raw) && isKeyByte(raw[keyEnd]) {
			keyEnd++
		}
		key := raw[i:keyEnd]

		j := skipSpace(raw, keyEnd)
		if j >= len(raw) || raw[j] != '=' {
			i = keyEnd
			continue
		}
		j = skipSpace(raw, j+1)

		value, next, ok := scanValue(raw, j)
		if !ok {
			i = keyEnd
			continue
		}
		fields[strings.ToLower(key)] = strings.TrimSpace(value)
		i = next
	}

	return Record{fields: fields}
}

// scanValue reads one field value starting at pos and returns it with the
// offset just past it. ok is false when no well-formed value starts at pos.
func scanValue(s string, pos int) (value string, next int, ok bool) {
	if pos >= len(s) {
		return "", pos, false
	}

	switch s[pos] {
	case '{':
		depth := 0
		for k := pos; k < len(s); k++ {
			switch s[k] {
			case '\\':
				k++ // escaped character, e.g. \{ or \}
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[pos+1 : k], k + 1, true
				}
			}
		}
		return "", pos, false

	case '"':
		depth := 0
		for k := pos + 1; k < len(s); k++ {
			switch s[k] {
			case '\\':
				k++
			case '{':
				depth++
			case '}':
				if depth > 0 {
					depth--
				}
			case '"':
				if depth == 0 {
					return s[pos+1 : k], k + 1, true
				}
			}
		}
		return "", pos, false

	default:
		end := pos
		for end < len(s) && isKeyByte(s[end]) {
			end++
		}
		if end == pos {
			return "", pos, false
		}
		return s[pos:end], end, true
	}
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\n' || s[pos] == '\r') {
		pos++
	}
	return pos
}

// isKeyByte matches the characters of a field name: ASCII letters, digits
// and underscore.
func isKeyByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

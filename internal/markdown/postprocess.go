// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
	"unicode"
)

// tableCaptionRe matches caption lines such as "Table 3" or " table 12: Results".
var tableCaptionRe = regexp.MustCompile(`(?i)^\s*table\s*\d+`)

// Process normalizes a Markdown document line by line:
//
//   - a "##" heading gets a blank line before it unless it opens the
//     document or already follows one;
//   - a "Table N" caption line gets a blank line after it unless it ends
//     the document or is already followed by one;
//   - every other line goes through SpaceInlineMath.
//
// Lines inside fenced code blocks pass through unchanged apart from
// trailing whitespace. Runs of blank lines are finally collapsed to one.
// Process is idempotent.
func Process(document string) string {
	lines := strings.Split(document, "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for i, line := range lines {
		cur := strings.TrimRightFunc(line, unicode.IsSpace)

		if isFence(cur) {
			inFence = !inFence
			out = append(out, cur)
			continue
		}
		if inFence {
			out = append(out, cur)
			continue
		}

		switch {
		case strings.HasPrefix(cur, "##"):
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			out = append(out, cur)

		case tableCaptionRe.MatchString(cur):
			out = append(out, cur)
			if i < len(lines)-1 && strings.TrimSpace(lines[i+1]) != "" {
				out = append(out, "")
			}

		default:
			out = append(out, SpaceInlineMath(cur))
		}
	}

	return strings.Join(collapseBlankLines(out), "\n")
}

func isFence(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~")
}

func collapseBlankLines(lines []string) []string {
	out := lines[:0]
	prevBlank := false
	for _, l := range lines {
		if l == "" {
			if prevBlank {
				continue
			}
			prevBlank = true
		} else {
			prevBlank = false
		}
		out = append(out, l)
	}
	return out
}

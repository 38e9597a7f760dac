// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown normalizes Markdown produced from LaTeX sources: math
// delimiters, spacing around inline formulas, heading and table-caption
// spacing. All transforms are stateless and idempotent.
package markdown

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	inlineParenRe    = regexp.MustCompile(`\\\((.*?)\\\)`)
	displayBracketRe = regexp.MustCompile(`\\\[(.*?)\\\]`)

	// displayEnvRes rewrite the numbered display environments, which may
	// span several lines.
	displayEnvRes = buildEnvRes("equation", "align", "gather", "multline")

	// mathSpanRe matches display spans first so that $$...$$ is never
	// mistaken for two inline spans.
	mathSpanRe = regexp.MustCompile(`\$\$[^$]*\$\$|\$[^$]+\$`)

	multiSpaceRe = regexp.MustCompile(` {2,}`)
)

func buildEnvRes(names ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(names)*2)
	for _, name := range names {
		for _, env := range []string{name, name + "*"} {
			q := regexp.QuoteMeta(env)
			res = append(res, regexp.MustCompile(`(?s)\\begin\{`+q+`\}(.*?)\\end\{`+q+`\}`))
		}
	}
	return res
}

// NormalizeDelimiters rewrites LaTeX math delimiters to Markdown ones:
// \( \) becomes $ $, and \[ \] as well as the equation, align, gather and
// multline environments become $$ $$. Stray \[ or \] tokens are mapped to
// $$, and spaces just inside the dollar delimiters of a formula are removed.
func NormalizeDelimiters(text string) string {
	out := inlineParenRe.ReplaceAllString(text, `$$${1}$$`)
	out = displayBracketRe.ReplaceAllString(out, `$$$$${1}$$$$`)
	for _, re := range displayEnvRes {
		out = re.ReplaceAllString(out, `$$$$${1}$$$$`)
	}

	out = strings.ReplaceAll(out, `\]`, "$$")
	out = strings.ReplaceAll(out, `\[`, "$$")

	return mathSpanRe.ReplaceAllStringFunc(out, trimPadding)
}

// trimPadding removes the spaces just inside a span's delimiters. A span
// holding only spaces is left alone so "$ $" never turns into "$$".
func trimPadding(span string) string {
	delim := "$"
	if strings.HasPrefix(span, "$$") {
		delim = "$$"
	}
	inner := strings.Trim(span[len(delim):len(span)-len(delim)], " ")
	if inner == "" {
		return span
	}
	return delim + inner + delim
}

// Characters after which no space is inserted before a formula. A dollar
// sign counts as an opener so a $$ run is never split.
const openers = "$\\([{（【「《"

// Characters before which no space is inserted after a formula.
const closers = "$,.;:!?，。；：！？)）]】}」》"

// SpaceInlineMath puts exactly one space on each side of every inline
// $...$ formula that does not start the line. No space is added after an
// opening bracket, a backslash, a dollar sign or whitespace, nor before
// whitespace, an opening bracket, a dollar sign or punctuation. Runs of spaces are then collapsed, leaving the line's
// indentation alone.
func SpaceInlineMath(line string) string {
	matches := mathSpanRe.FindAllStringIndex(line, -1)
	if len(matches) > 0 {
		var b strings.Builder
		last := 0
		for _, m := range matches {
			start, end := m[0], m[1]
			b.WriteString(line[last:start])
			span := line[start:end]
			last = end

			if start == 0 || strings.HasPrefix(span, "$$") {
				b.WriteString(span)
				continue
			}

			prev, _ := utf8.DecodeLastRuneInString(line[:start])
			if !unicode.IsSpace(prev) && !strings.ContainsRune(openers, prev) {
				b.WriteByte(' ')
			}
			b.WriteString(span)
			if end < len(line) {
				next, _ := utf8.DecodeRuneInString(line[end:])
				if !unicode.IsSpace(next) && !strings.ContainsRune(openers, next) && !strings.ContainsRune(closers, next) {
					b.WriteByte(' ')
				}
			}
		}
		b.WriteString(line[last:])
		line = b.String()
	}

	indent := len(line) - len(strings.TrimLeft(line, " "))
	return line[:indent] + multiSpaceRe.ReplaceAllString(line[indent:], " ")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders catalog papers and resolution results as JSON,
// YAML, CSL-YAML, or a plain numbered citation listing.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/catalog"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Format selects an encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	Text Format = "text"
	CSL  Format = "csl"
)

// ParseFormat validates a format name. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return JSON, nil
	case JSON, YAML, Text, CSL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, yaml, text, or csl)", s)
	}
}

// Write encodes v to w in format f.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case JSON, "":
		return writeJSON(w, v)
	case YAML:
		return writeYAML(w, v)
	case Text:
		return writeText(w, v)
	case CSL:
		return writeCSL(w, v)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// writeJSON indents by two spaces and keeps non-ASCII and HTML characters
// as is.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func writeText(w io.Writer, v any) error {
	var b strings.Builder
	switch x := v.(type) {
	case []types.Paper:
		if len(x) == 0 {
			b.WriteString("No results found.\n")
		}
		listPapers(&b, x)
	case types.Paper:
		b.WriteString(Citation(x) + "\n")
	case *types.Paper:
		if x != nil {
			b.WriteString(Citation(*x) + "\n")
		}
	case *catalog.Details:
		if x != nil {
			b.WriteString(Citation(x.Paper) + "\n")
			if len(x.References) > 0 {
				fmt.Fprintf(&b, "\n%d references\n", len(x.References))
			}
		}
	case types.ResolutionResult:
		writeResolution(&b, x)
	case string:
		b.WriteString(strings.TrimRight(x, "\n") + "\n")
	default:
		fmt.Fprintf(&b, "%v\n", v)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeResolution(b *strings.Builder, r types.ResolutionResult) {
	if !r.Found() {
		b.WriteString(r.Error + "\n")
		return
	}
	b.WriteString(Citation(*r.MainPaper) + "\n")
	if len(r.References) == 0 {
		b.WriteString("\nNo references resolved.\n")
		return
	}
	fmt.Fprintf(b, "\nReferences (%d):\n", len(r.References))
	listPapers(b, r.References)
}

func listPapers(b *strings.Builder, papers []types.Paper) {
	for i, p := range papers {
		fmt.Fprintf(b, "[%d] %s\n", i+1, Citation(p))
	}
}

// Citation returns the paper's GB/T 7714 citation, or a short
// title-year-id line when none was composed.
func Citation(p types.Paper) string {
	if p.GBT7714 != "" {
		return p.GBT7714
	}
	line := p.Title
	if p.Year > 0 {
		line += fmt.Sprintf(" (%d)", p.Year)
	}
	if p.ID != "" {
		line += " [" + p.ID + "]"
	}
	return line
}

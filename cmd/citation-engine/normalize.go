// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/markdown"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file|-]",
	Short: "Normalize Markdown converted from LaTeX",
	Long: `Normalize reads Markdown from a file, or from stdin when the argument is "-"
or absent, and writes it back with blank lines before "##" headings and after
"Table N" captions, single spaces around inline $...$ formulas, and collapsed
blank lines. With --latex, \( \), \[ \] and numbered display environments are
first rewritten to $ and $$ delimiters.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().Bool("latex", false, "rewrite LaTeX math delimiters first")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	doc, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	if latex, _ := cmd.Flags().GetBool("latex"); latex {
		doc = markdown.NormalizeDelimiters(doc)
	}

	_, err = io.WriteString(cmd.OutOrStdout(), markdown.Process(doc))
	return err
}

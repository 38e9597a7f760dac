// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/bibtex"
	"github.com/pdiddy/citation-engine/internal/gbt7714"
)

var formatCmd = &cobra.Command{
	Use:   "format [file|-]",
	Short: "Format BibTeX entries as GB/T 7714 citations",
	Long: `Format reads BibTeX from a file, or from stdin when the argument is "-" or
absent, and prints one GB/T 7714 citation per entry. Several entries are
numbered [1], [2], ... Entries that cannot be formatted are reported on
stderr and make the command fail after the rest are printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	entries := bibtex.SplitEntries(raw)
	if len(entries) == 0 {
		return fmt.Errorf("no BibTeX input")
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, entry := range entries {
		citation := gbt7714.Compose(entry)
		if gbt7714.IsFailure(citation) {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "entry %d: %s\n", i+1, citation)
			continue
		}
		if len(entries) == 1 {
			fmt.Fprintln(out, citation)
		} else {
			fmt.Fprintf(out, "[%d] %s\n", i+1, citation)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d entr(ies) could not be formatted", failed, len(entries))
	}
	return nil
}

// readInput returns the contents of args[0], or stdin when no file or "-"
// is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

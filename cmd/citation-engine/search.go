// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/output"
	"github.com/pdiddy/citation-engine/internal/resolve"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog for papers",
	Long: `Search queries the Semantic Scholar catalog and lists matching papers, best
match first. Papers that come with BibTeX also carry their GB/T 7714 citation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 5, "maximum number of papers to return")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, closeCache, err := newCatalog(cmd.Context(), cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeCache()

	query := strings.Join(args, " ")
	papers, err := client.Search(cmd.Context(), query, limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	for i := range papers {
		resolve.AttachCitation(&papers[i])
	}

	return output.Write(cmd.OutOrStdout(), format, papers)
}

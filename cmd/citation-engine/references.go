// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/internal/output"
	"github.com/pdiddy/citation-engine/internal/resolve"
)

var referencesCmd = &cobra.Command{
	Use:   "references <title>",
	Short: "Resolve a title to its paper and cited references",
	Long: `References searches the catalog for the title, takes the best match, fetches
the papers it cites in one batch, and prints them with GB/T 7714 citations.
A title with no match prints a result whose error is "paper not found".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReferences,
}

func init() {
	referencesCmd.Flags().Int("reference-limit", 0, "maximum reference edges to fetch (default 50)")
	viper.BindPFlag("resolve.reference_limit", referencesCmd.Flags().Lookup("reference-limit"))

	rootCmd.AddCommand(referencesCmd)
}

func runReferences(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, closeCache, err := newCatalog(cmd.Context(), cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeCache()

	pipeline := resolve.New(client,
		resolve.WithLogger(logger.Named("resolve")),
		resolve.WithReferenceLimit(cfg.Resolve.ReferenceLimit))

	result, err := pipeline.Resolve(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), format, result)
}

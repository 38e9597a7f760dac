// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/output"
	"github.com/pdiddy/citation-engine/internal/resolve"
)

var detailsCmd = &cobra.Command{
	Use:   "details <paper-id|doi>",
	Short: "Show one paper with its citation",
	Long: `Details fetches a single paper by Semantic Scholar paper id, a prefixed id
such as arXiv:1706.03762, or a bare DOI (10.xxxx/...), and prints it with its
GB/T 7714 citation and reference list.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetails,
}

func init() {
	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, args []string) error {
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

	d, err := client.GetDetails(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	resolve.AttachCitation(&d.Paper)

	return output.Write(cmd.OutOrStdout(), format, d)
}

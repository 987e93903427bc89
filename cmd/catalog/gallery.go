package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

var auditRepair bool

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Gallery index maintenance",
}

var galleryAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Compare the gallery index with the stored items",
	Long: `audit lists orphaned items (stored but not indexed), dangling index
entries and duplicates. With --repair the index is rewritten through the
same conditional update used by the API, so it is safe to run against a
live deployment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, store, err := connectStore(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		report, err := newGalleryService(store).Audit(ctx, auditRepair)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		if !report.Clean() && !report.Repaired {
			return errors.New("gallery index is inconsistent (rerun with --repair)")
		}
		return nil
	},
}

func init() {
	galleryAuditCmd.Flags().BoolVar(&auditRepair, "repair", false, "rewrite the index to match the stored items")
	galleryCmd.AddCommand(galleryAuditCmd)
	rootCmd.AddCommand(galleryCmd)
}

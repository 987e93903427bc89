package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var warmLangs []string

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Rebuild the Redis catalog cache from snapshot or source",
	Long: `warm resolves each language while skipping the cache, then writes the
result to Redis. Run it after a deploy or after the source spreadsheet changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, store, err := connectStore(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		svc := newCatalogService(newCacheTier(store), nil)

		langs := warmLangs
		if len(langs) == 0 {
			for _, l := range svc.Languages().All() {
				langs = append(langs, l.String())
			}
		}

		out := cmd.OutOrStdout()
		results := make([]string, len(langs))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i, lang := range langs {
			g.Go(func() error {
				res, err := svc.Refresh(gctx, lang)
				if err != nil {
					return fmt.Errorf("warm %s: %w", lang, err)
				}
				results[i] = fmt.Sprintf("%-4s %4d records from %s", res.Lang, len(res.Records), res.Tier)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, line := range results {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	warmCmd.Flags().StringSliceVar(&warmLangs, "lang", nil, "languages to warm (default: all configured)")
	rootCmd.AddCommand(warmCmd)
}


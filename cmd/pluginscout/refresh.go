package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pluginscout/internal/domain/marketplace"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh all cached catalogs",
	Long: `Fetch every configured marketplace catalog now, regardless of
cache age. Sources that cannot be reached keep their last cached data.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, sources, err := newService()
	if err != nil {
		return err
	}

	corpus, err := svc.Corpus(ctx, sources, true)
	if err != nil {
		if errors.Is(err, marketplace.ErrNoData) {
			return fmt.Errorf("no marketplace data available; check network access and configured sources")
		}
		return err
	}
	printWarnings(corpus.Warnings)

	fmt.Printf("Refreshed %d of %d marketplace(s), %d plugin(s) indexed.\n",
		corpus.LoadedSources, corpus.TotalSources, len(corpus.Records))
	return nil
}

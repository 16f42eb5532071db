package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pluginscout/internal/domain/marketplace"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List marketplaces and categories",
	Long: `Display the configured marketplaces with their record counts,
and the categories present in the aggregated corpus.

Examples:
  pluginscout list
  pluginscout list --tags`,
	RunE: runList,
}

var listTags bool

func init() {
	listCmd.Flags().BoolVar(&listTags, "tags", false, "also list all tags")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, sources, err := newService()
	if err != nil {
		return err
	}

	corpus, err := svc.Corpus(ctx, sources, false)
	if err != nil {
		if errors.Is(err, marketplace.ErrNoData) {
			return fmt.Errorf("no marketplace data available; check network access and configured sources")
		}
		return err
	}
	printWarnings(corpus.Warnings)

	stats := marketplace.Summarize(corpus.Records, sources)

	fmt.Printf("Marketplaces (%d):\n", len(stats.Marketplaces))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, m := range stats.Marketplaces {
		_, _ = fmt.Fprintf(w, "  %s\t%d plugins\t%s\n", m.Name, m.Records, m.BaseURL)
	}
	_ = w.Flush()

	fmt.Printf("\nCategories (%d):\n", len(stats.Categories))
	for _, c := range stats.Categories {
		fmt.Printf("  %s (%d plugins)\n", c.Name, c.Records)
	}

	if listTags {
		fmt.Printf("\nTags (%d):\n", len(stats.Tags))
		fmt.Printf("  %s\n", strings.Join(stats.Tags, ", "))
	}

	return nil
}

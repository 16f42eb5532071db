package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pluginscout/internal/domain/marketplace"
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search plugins across marketplaces",
	Long: `Search the aggregated plugin corpus.

Terms match name, description, category, tags, and keywords with OR
logic: a plugin is included when any term matches any field. Category,
tag, and marketplace filters narrow the result further.

Examples:
  pluginscout search notion
  pluginscout search "issue tracking" --detailed
  pluginscout search --all --marketplace official
  pluginscout search --category productivity
  pluginscout search --tag git --tag ci`,
	RunE: runSearch,
}

var (
	searchCategory    string
	searchTags        []string
	searchMarketplace string
	searchAll         bool
	searchDetailed    bool
	searchRefresh     bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "filter by category")
	searchCmd.Flags().StringArrayVarP(&searchTags, "tag", "t", nil, "filter by tag (repeatable, any may match)")
	searchCmd.Flags().StringVarP(&searchMarketplace, "marketplace", "m", "", "filter by marketplace name")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "list all plugins (ignore query terms)")
	searchCmd.Flags().BoolVarP(&searchDetailed, "detailed", "d", false, "include live repository details")
	searchCmd.Flags().BoolVar(&searchRefresh, "refresh", false, "force refresh of cached catalogs")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, sources, err := newService()
	if err != nil {
		return err
	}

	corpus, err := svc.Corpus(ctx, sources, searchRefresh)
	if err != nil {
		if errors.Is(err, marketplace.ErrNoData) {
			return fmt.Errorf("no marketplace data available; check network access and configured sources")
		}
		return err
	}
	printWarnings(corpus.Warnings)

	query := marketplace.Query{
		Category:    searchCategory,
		Tags:        searchTags,
		Marketplace: searchMarketplace,
	}
	if !searchAll {
		query.Text = strings.Join(args, " ")
	}

	results := marketplace.Filter(corpus.Records, query)

	fmt.Printf("Found %d plugin(s)\n", len(results))
	if len(results) == 0 {
		fmt.Println("\nNo plugins found matching your criteria.")
		fmt.Println("Try broadening your search or checking available categories with 'pluginscout list'.")
		return nil
	}

	if searchDetailed {
		printDetailedResults(ctx, results, sources)
		return nil
	}

	fmt.Println()
	for i, rec := range results {
		fmt.Printf("%d. %s\n", i+1, compactLine(rec))
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pluginscout/internal/domain/marketplace"
)

var infoCmd = &cobra.Command{
	Use:   "info <plugin>...",
	Short: "Show detailed plugin information",
	Long: `Display full details for plugins selected by exact name,
including live repository data: stars, last update, MCP support, and
the commands and skills the plugin ships.

Examples:
  pluginscout info notion
  pluginscout info notion linear github`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

var infoRefresh bool

func init() {
	infoCmd.Flags().BoolVar(&infoRefresh, "refresh", false, "force refresh of cached catalogs")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, sources, err := newService()
	if err != nil {
		return err
	}

	corpus, err := svc.Corpus(ctx, sources, infoRefresh)
	if err != nil {
		if errors.Is(err, marketplace.ErrNoData) {
			return fmt.Errorf("no marketplace data available; check network access and configured sources")
		}
		return err
	}
	printWarnings(corpus.Warnings)

	results := marketplace.SelectByName(corpus.Records, args)

	fmt.Printf("Found %d plugin(s)\n", len(results))
	if len(results) == 0 {
		fmt.Println("\nNo plugins found with the specified names.")
		fmt.Printf("Searched for: %s\n", strings.Join(args, ", "))
		return nil
	}

	printDetailedResults(ctx, results, sources)
	return nil
}

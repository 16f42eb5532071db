package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pluginscout/internal/domain/inspect"
	"github.com/felixgeelhaar/pluginscout/internal/domain/marketplace"
)

// maxFeatureLines bounds the command/skill listings per plugin.
const maxFeatureLines = 5

// compactLine renders one record for list output.
func compactLine(rec marketplace.Record) string {
	description := rec.Description
	if description == "" {
		description = "No description"
	}
	return fmt.Sprintf("%s (%s) [%s] - %s", rec.Name, rec.Category, rec.Owner, description)
}

// printDetailedResults inspects each record's repository and renders
// the full block. Inspection failure degrades to an explicit unknown,
// never an error for the query.
func printDetailedResults(ctx context.Context, records []marketplace.Record, sources []marketplace.Source) {
	settings, err := marketplace.SettingsFromEnv()
	cfg := inspect.DefaultConfig()
	if err == nil {
		cfg.Timeout = settings.Timeout
		cfg.AuthToken = settings.GitHubToken
	}
	inspector := inspect.NewInspector(cfg)

	bySource := make(map[string]marketplace.Source, len(sources))
	for _, src := range sources {
		bySource[src.Name()] = src
	}

	for _, rec := range records {
		var features *inspect.Features
		if !rec.Repo.IsZero() {
			f, ierr := inspector.Inspect(ctx, rec.Repo)
			if ierr == nil {
				features = f
				rec = f.Apply(rec)
			}
		}
		printDetailed(rec, features, bySource[rec.Marketplace])
	}
}

// printDetailed renders one record's full block.
func printDetailed(rec marketplace.Record, features *inspect.Features, source marketplace.Source) {
	rule := strings.Repeat("=", 80)

	fmt.Printf("\n%s\n", rule)
	fmt.Printf("%s [%s]\n", rec.Name, rec.Owner)
	fmt.Printf("%s\n", rule)
	fmt.Printf("Category: %s\n", rec.Category)

	description := rec.Description
	if description == "" {
		description = "No description"
	}
	fmt.Printf("Description: %s\n", description)

	if len(rec.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(rec.Tags, ", "))
	}
	if rec.Version != "" {
		fmt.Printf("Version: %s\n", rec.Version)
	}

	if features != nil {
		parts := []string{
			fmt.Sprintf("Stars: %d", features.Stars),
			fmt.Sprintf("MCP: %s", yesNo(features.MCPSupported)),
			fmt.Sprintf("Commands: %d", len(features.Commands)),
			fmt.Sprintf("Skills: %d", len(features.Skills)),
		}
		if !features.LastUpdated.IsZero() {
			parts = append(parts, "Last Updated: "+features.LastUpdated.Format("2006-01-02"))
		}
		fmt.Printf("\n%s\n", strings.Join(parts, " | "))

		printFeatureList("Commands", commandNames(features.Commands))
		printFeatureList("Skills", skillNames(features.Skills))
	} else {
		fmt.Println("\nRepository details unknown (inspection unavailable).")
	}

	printInstallDirectives(rec, source)

	if rec.Homepage != "" {
		fmt.Printf("\nHomepage: %s\n", rec.Homepage)
	}
}

func printFeatureList(label string, names []string) {
	if len(names) == 0 {
		return
	}

	fmt.Printf("\n%s:\n", label)
	for i, name := range names {
		if i == maxFeatureLines {
			fmt.Printf("  ... and %d more\n", len(names)-maxFeatureLines)
			break
		}
		fmt.Printf("  - %s\n", name)
	}
}

// printInstallDirectives emits the opaque directives the host tool's
// installer understands. Pluginscout never executes them.
func printInstallDirectives(rec marketplace.Record, source marketplace.Source) {
	repoSlug := rec.Marketplace
	if !source.IsZero() {
		repoSlug = source.RepoSlug()
	}

	fmt.Printf("\n%s\n", strings.Repeat("-", 80))
	fmt.Println("Installation:")
	fmt.Println("  # First, add the marketplace (if not already added):")
	fmt.Printf("  /plugin marketplace add %s\n", repoSlug)
	fmt.Println()
	fmt.Println("  # Then install the plugin:")
	fmt.Printf("  /plugin install %s@%s\n", rec.Name, rec.Marketplace)
}

func commandNames(commands []marketplace.Command) []string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}
	return names
}

func skillNames(skills []marketplace.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

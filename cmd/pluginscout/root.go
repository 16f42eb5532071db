package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pluginscout/internal/adapters/logging"
	"github.com/felixgeelhaar/pluginscout/internal/domain/marketplace"
	"github.com/felixgeelhaar/pluginscout/internal/ports"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pluginscout",
	Short: "Discover plugins across marketplaces",
	Long: `Pluginscout aggregates plugin catalogs from configured marketplaces
into one searchable corpus, enriched on demand with live repository data.

It locates and describes installation candidates; installing them is the
host tool's job.`,
	SilenceErrors: true, // We format errors ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "marketplaces file (default: marketplaces.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the logger for one command invocation.
func newLogger() ports.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = "warn"
	if verbose {
		cfg = logging.DevelopmentConfig()
	}

	logger, err := logging.NewZapLogger(cfg)
	if err != nil {
		return logging.NewNopLogger()
	}
	return logger
}

// newService wires settings, sources, and the aggregation service.
func newService() (*marketplace.Service, []marketplace.Source, error) {
	settings, err := marketplace.SettingsFromEnv()
	if err != nil {
		return nil, nil, err
	}

	sources, err := marketplace.LoadSources(configPath())
	if err != nil {
		return nil, nil, err
	}

	cfg := settings.ServiceConfig()
	cfg.Logger = newLogger()

	return marketplace.NewService(cfg), sources, nil
}

// configPath resolves the marketplaces file: the --config flag, then
// the working directory, then the user config directory.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}

	candidates := []string{"marketplaces.yaml", "marketplaces.yml", "marketplaces.toml"}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		for _, c := range candidates {
			p := filepath.Join(homeDir, ".pluginscout", c)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	return "marketplaces.yaml"
}

// printWarnings surfaces degraded sources without failing the command.
func printWarnings(warnings []marketplace.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", w.Source, w.Message)
	}
}

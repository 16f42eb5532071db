package marketplace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings are the environment-derived knobs of the service.
// Everything has a default; the environment only overrides.
type Settings struct {
	// CacheDir is where catalog documents are persisted.
	CacheDir string `envconfig:"CACHE_DIR"`
	// GitHubToken authenticates GitHub API requests (optional).
	GitHubToken string `envconfig:"GITHUB_TOKEN"`
	// Timeout bounds each network call.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
	// FreshnessWindow is how long a cached catalog stays fresh.
	FreshnessWindow time.Duration `envconfig:"FRESHNESS_WINDOW" default:"60m"`
}

// SettingsFromEnv loads settings from PLUGINSCOUT_* environment
// variables, falling back to GITHUB_TOKEN for the API token.
func SettingsFromEnv() (Settings, error) {
	var s Settings
	if err := envconfig.Process("pluginscout", &s); err != nil {
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	if s.CacheDir == "" {
		homeDir, _ := os.UserHomeDir()
		s.CacheDir = filepath.Join(homeDir, ".pluginscout", "cache")
	}

	if s.GitHubToken == "" {
		s.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	return s, nil
}

// ServiceConfig builds a service configuration from the settings.
func (s Settings) ServiceConfig() ServiceConfig {
	cfg := DefaultServiceConfig()
	cfg.CacheConfig.BasePath = s.CacheDir
	cfg.ClientConfig.Timeout = s.Timeout
	cfg.ClientConfig.AuthToken = s.GitHubToken
	cfg.FreshnessWindow = s.FreshnessWindow
	return cfg
}

package marketplace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Configuration errors. Configuration problems are the only fatal
// condition in the system: without sources no corpus can be built.
var (
	ErrInvalidConfig = errors.New("invalid marketplace configuration")
	ErrNoSources     = errors.New("no marketplace sources configured")
)

// sourcesFile mirrors the on-disk marketplaces file.
type sourcesFile struct {
	Marketplaces []sourceEntry `yaml:"marketplaces" toml:"marketplaces"`
}

type sourceEntry struct {
	Name    string `yaml:"name" toml:"name"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

// LoadSources reads the ordered marketplace source list from a YAML or
// TOML file, chosen by extension. The order in the file is the order
// sources contribute to the corpus.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalidConfig, path, err)
	}

	var file sourcesFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidConfig, path, err)
		}
	case ".yaml", ".yml", ".json":
		// yaml.v3 accepts JSON as a subset.
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidConfig, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}

	if len(file.Marketplaces) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, path)
	}

	sources := make([]Source, 0, len(file.Marketplaces))
	seen := make(map[string]struct{}, len(file.Marketplaces))
	for _, entry := range file.Marketplaces {
		src, err := NewSource(entry.Name, entry.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if _, dup := seen[src.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate source name %q", ErrInvalidConfig, src.Name())
		}
		seen[src.Name()] = struct{}{}
		sources = append(sources, src)
	}

	return sources, nil
}

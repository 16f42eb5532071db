package marketplace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSources_YAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "marketplaces.yaml", `
marketplaces:
  - name: official
    base_url: https://github.com/acme/plugins
  - name: community
    base_url: https://github.com/community/registry
`)

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "official", sources[0].Name())
	assert.Equal(t, "community", sources[1].Name())
	assert.Equal(t, "https://github.com/acme/plugins", sources[0].BaseURL())
}

func TestLoadSources_TOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "marketplaces.toml", `
[[marketplaces]]
name = "official"
base_url = "https://github.com/acme/plugins"
`)

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "official", sources[0].Name())
}

func TestLoadSources_JSON(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "marketplaces.json",
		`{"marketplaces": [{"name": "official", "base_url": "https://github.com/acme/plugins"}]}`)

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
}

func TestLoadSources_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"empty list", "m.yaml", "marketplaces: []", ErrNoSources},
		{"malformed yaml", "m.yaml", "marketplaces: [", ErrInvalidConfig},
		{"unsupported format", "m.ini", "marketplaces=none", ErrInvalidConfig},
		{"invalid source", "m.yaml", "marketplaces:\n  - name: broken\n    base_url: \"\"", ErrInvalidConfig},
		{"duplicate name", "m.yaml", `
marketplaces:
  - name: official
    base_url: https://github.com/acme/plugins
  - name: official
    base_url: https://github.com/other/plugins
`, ErrInvalidConfig},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.file, tt.content)
			_, err := LoadSources(path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadSources_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadSources(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

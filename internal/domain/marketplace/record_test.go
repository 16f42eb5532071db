package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource(t *testing.T) Source {
	t.Helper()

	src, err := NewSource("official", "https://github.com/acme/plugins")
	require.NoError(t, err)
	return src
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	entry := Entry{
		Name:        "git-helper",
		Description: "Git workflow automation",
		Category:    "productivity",
		Version:     "1.2.0",
		Tags:        []string{"git"},
		Keywords:    []string{"workflow"},
		Homepage:    "https://example.com/git-helper",
		Source:      SourceRef{Kind: SourceRefPath, Value: "./plugins/git-helper"},
	}

	rec := Normalize(entry, testSource(t), "Acme Tools")

	assert.Equal(t, "git-helper", rec.Name)
	assert.Equal(t, "official", rec.Marketplace)
	assert.Equal(t, "Acme Tools", rec.Owner)
	assert.Equal(t, "git-helper@official", rec.Key())
	assert.Equal(t, RepoCoordinate{Owner: "acme", Repo: "plugins", PluginPath: "plugins/git-helper"}, rec.Repo)

	// Enrichment stays unknown until inspection.
	assert.Nil(t, rec.Stars)
	assert.Nil(t, rec.MCPSupported)
	assert.Nil(t, rec.Commands)
}

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	rec := Normalize(Entry{Name: "bare"}, testSource(t), "")

	assert.Equal(t, "uncategorized", rec.Category)
	assert.Equal(t, "Unknown", rec.Owner)
	assert.True(t, rec.Repo.IsZero())
}

func TestDeriveCoordinate(t *testing.T) {
	t.Parallel()

	src := testSource(t)
	nonRepoSrc, err := NewSource("mirror", "https://example.com/catalog")
	require.NoError(t, err)

	tests := []struct {
		name   string
		entry  Entry
		source Source
		want   RepoCoordinate
	}{
		{
			"path inside marketplace repo",
			Entry{Source: SourceRef{Kind: SourceRefPath, Value: "./plugins/foo"}},
			src,
			RepoCoordinate{Owner: "acme", Repo: "plugins", PluginPath: "plugins/foo"},
		},
		{
			"path with non-repo marketplace",
			Entry{Source: SourceRef{Kind: SourceRefPath, Value: "./plugins/foo"}},
			nonRepoSrc,
			RepoCoordinate{},
		},
		{
			"absolute url",
			Entry{Source: SourceRef{Kind: SourceRefURL, Value: "https://github.com/other/foo"}},
			src,
			RepoCoordinate{Owner: "other", Repo: "foo"},
		},
		{
			"url with branch",
			Entry{Source: SourceRef{Kind: SourceRefURL, Value: "https://github.com/other/foo/tree/develop"}},
			src,
			RepoCoordinate{Owner: "other", Repo: "foo", Branch: "develop"},
		},
		{
			"explicit slug",
			Entry{Source: SourceRef{Kind: SourceRefRepo, Value: "other/foo"}},
			src,
			RepoCoordinate{Owner: "other", Repo: "foo"},
		},
		{
			"malformed slug",
			Entry{Source: SourceRef{Kind: SourceRefRepo, Value: "justaname"}},
			src,
			RepoCoordinate{},
		},
		{
			"homepage fallback",
			Entry{Homepage: "https://github.com/other/foo"},
			src,
			RepoCoordinate{Owner: "other", Repo: "foo"},
		},
		{
			"nothing derivable",
			Entry{Homepage: "https://example.com/foo"},
			src,
			RepoCoordinate{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, deriveCoordinate(tt.entry, tt.source))
		})
	}
}

func TestParseRepoURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rawURL string
		want   RepoCoordinate
		wantOK bool
	}{
		{"plain", "https://github.com/acme/foo", RepoCoordinate{Owner: "acme", Repo: "foo"}, true},
		{"git suffix", "https://github.com/acme/foo.git", RepoCoordinate{Owner: "acme", Repo: "foo"}, true},
		{"tree branch", "https://github.com/acme/foo/tree/main", RepoCoordinate{Owner: "acme", Repo: "foo", Branch: "main"}, true},
		{"deep path", "https://github.com/acme/foo/tree/main/sub/dir", RepoCoordinate{Owner: "acme", Repo: "foo", Branch: "main"}, true},
		{"not github", "https://gitlab.com/acme/foo", RepoCoordinate{}, false},
		{"empty", "", RepoCoordinate{}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseRepoURL(tt.rawURL)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

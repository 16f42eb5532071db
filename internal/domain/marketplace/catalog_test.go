package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`{
		"name": "official",
		"owner": {"name": "Acme Tools"},
		"plugins": [
			{
				"name": "git-helper",
				"description": "Git workflow automation",
				"category": "productivity",
				"version": "1.2.0",
				"tags": ["git", "vcs"],
				"keywords": ["workflow"],
				"source": "./plugins/git-helper"
			}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "official", doc.Name)
	assert.Equal(t, "Acme Tools", doc.OwnerName())
	require.Len(t, doc.Plugins, 1)

	entry := doc.Plugins[0]
	assert.Equal(t, "git-helper", entry.Name)
	assert.Equal(t, []string{"git", "vcs"}, entry.Tags)
	assert.Equal(t, SourceRef{Kind: SourceRefPath, Value: "./plugins/git-helper"}, entry.Source)
}

func TestParseDocument_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseDocument([]byte("not json"))
	assert.Error(t, err)
}

func TestDocument_OwnerShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"object owner", `{"owner": {"name": "Acme"}, "plugins": []}`, "Acme"},
		{"string owner", `{"owner": "Acme", "plugins": []}`, "Acme"},
		{"absent owner", `{"plugins": []}`, "Unknown"},
		{"unrecognized owner", `{"owner": 42, "plugins": []}`, "Unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := ParseDocument([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.OwnerName())
		})
	}
}

func TestSourceRef_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want SourceRef
	}{
		{"bare path", `"./plugins/foo"`, SourceRef{Kind: SourceRefPath, Value: "./plugins/foo"}},
		{"empty string", `""`, SourceRef{}},
		{"url object", `{"source": "url", "url": "https://github.com/acme/foo"}`, SourceRef{Kind: SourceRefURL, Value: "https://github.com/acme/foo"}},
		{"repo object", `{"source": "github", "repo": "acme/foo"}`, SourceRef{Kind: SourceRefRepo, Value: "acme/foo"}},
		{"unknown object", `{"source": "gitlab", "project": 12}`, SourceRef{}},
		{"wrong type", `42`, SourceRef{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ref SourceRef
			require.NoError(t, ref.UnmarshalJSON([]byte(tt.raw)))
			assert.Equal(t, tt.want, ref)
			assert.Equal(t, tt.want.Kind == SourceRefNone, ref.IsZero())
		})
	}
}

func TestSourceRef_RoundTrip(t *testing.T) {
	t.Parallel()

	refs := []SourceRef{
		{Kind: SourceRefPath, Value: "./plugins/foo"},
		{Kind: SourceRefURL, Value: "https://github.com/acme/foo"},
		{Kind: SourceRefRepo, Value: "acme/foo"},
	}

	for _, ref := range refs {
		data, err := ref.MarshalJSON()
		require.NoError(t, err)

		var decoded SourceRef
		require.NoError(t, decoded.UnmarshalJSON(data))
		assert.Equal(t, ref, decoded)
	}
}

package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchCorpus() []Record {
	return []Record{
		{
			Name:        "notion-sync",
			Description: "Sync pages with Notion workspaces",
			Category:    "productivity",
			Tags:        []string{"notion", "sync"},
			Marketplace: "official",
		},
		{
			Name:        "db-inspector",
			Description: "Provides API access to relational databases",
			Category:    "data",
			Tags:        []string{"database", "sql"},
			Keywords:    []string{"postgres"},
			Marketplace: "official",
		},
		{
			Name:        "audit-trail",
			Description: "Track security events",
			Category:    "security",
			Tags:        []string{"audit"},
			Marketplace: "community",
		},
	}
}

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestFilter_EmptyQueryMatchesAll(t *testing.T) {
	t.Parallel()

	corpus := searchCorpus()
	results := Filter(corpus, Query{})

	assert.True(t, Query{}.IsZero())
	assert.Equal(t, names(corpus), names(results))
}

func TestFilter_TextTermsAreORed(t *testing.T) {
	t.Parallel()

	// "database" hits tags, "api" hits the description substring "API";
	// one matching term is enough.
	results := Filter(searchCorpus(), Query{Text: "database api"})
	assert.Equal(t, []string{"db-inspector"}, names(results))

	// Terms matching different records union the matches.
	results = Filter(searchCorpus(), Query{Text: "notion security"})
	assert.Equal(t, []string{"notion-sync", "audit-trail"}, names(results))
}

func TestFilter_TextSearchesAllFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"name", "inspector", []string{"db-inspector"}},
		{"description", "workspaces", []string{"notion-sync"}},
		{"category", "security", []string{"audit-trail"}},
		{"tag", "sql", []string{"db-inspector"}},
		{"keyword", "postgres", []string{"db-inspector"}},
		{"case insensitive", "NOTION", []string{"notion-sync"}},
		{"no match", "kubernetes", []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := Filter(searchCorpus(), Query{Text: tt.text})
			assert.Equal(t, tt.want, names(results))
		})
	}
}

func TestFilter_TagsIntersect(t *testing.T) {
	t.Parallel()

	// Querying {database, notion} matches records carrying either tag.
	results := Filter(searchCorpus(), Query{Tags: []string{"database", "notion"}})
	assert.Equal(t, []string{"notion-sync", "db-inspector"}, names(results))

	results = Filter(searchCorpus(), Query{Tags: []string{"missing"}})
	assert.Empty(t, results)
}

func TestFilter_CategoryExact(t *testing.T) {
	t.Parallel()

	results := Filter(searchCorpus(), Query{Category: "Productivity"})
	assert.Equal(t, []string{"notion-sync"}, names(results))

	// Unknown category is an empty result, not an error.
	results = Filter(searchCorpus(), Query{Category: "gaming"})
	assert.Empty(t, results)
}

func TestFilter_Marketplace(t *testing.T) {
	t.Parallel()

	results := Filter(searchCorpus(), Query{Marketplace: "community"})
	assert.Equal(t, []string{"audit-trail"}, names(results))
}

func TestFilter_FiltersCombineWithAND(t *testing.T) {
	t.Parallel()

	// "sync" alone matches notion-sync; constrained to community it
	// matches nothing.
	results := Filter(searchCorpus(), Query{Text: "sync", Marketplace: "community"})
	assert.Empty(t, results)

	results = Filter(searchCorpus(), Query{Text: "sync", Marketplace: "official", Category: "productivity"})
	assert.Equal(t, []string{"notion-sync"}, names(results))
}

func TestFilter_PreservesCorpusOrder(t *testing.T) {
	t.Parallel()

	// All three match "a"; order must be corpus order, with no promotion
	// for records matching more terms.
	results := Filter(searchCorpus(), Query{Text: "a"})
	require.Len(t, results, 3)
	assert.Equal(t, names(searchCorpus()), names(results))
}

func TestSelectByName(t *testing.T) {
	t.Parallel()

	results := SelectByName(searchCorpus(), []string{"AUDIT-TRAIL", "notion-sync"})
	assert.Equal(t, []string{"notion-sync", "audit-trail"}, names(results))

	assert.Empty(t, SelectByName(searchCorpus(), []string{"absent"}))
	assert.Empty(t, SelectByName(searchCorpus(), nil))

	// Substrings do not qualify; the match is exact.
	assert.Empty(t, SelectByName(searchCorpus(), []string{"notion"}))
}

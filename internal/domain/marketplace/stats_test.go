package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	sources := []Source{
		mustSource(t, "official", "acme/plugins"),
		mustSource(t, "community", "community/registry"),
	}

	stats := Summarize(searchCorpus(), sources)

	assert.Equal(t, 3, stats.TotalRecords)

	require.Len(t, stats.Marketplaces, 2)
	assert.Equal(t, "official", stats.Marketplaces[0].Name)
	assert.Equal(t, 2, stats.Marketplaces[0].Records)
	assert.Equal(t, "community", stats.Marketplaces[1].Name)
	assert.Equal(t, 1, stats.Marketplaces[1].Records)

	assert.Equal(t, []CategoryCount{
		{Name: "data", Records: 1},
		{Name: "productivity", Records: 1},
		{Name: "security", Records: 1},
	}, stats.Categories)

	assert.Equal(t, []string{"audit", "database", "notion", "sql", "sync"}, stats.Tags)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	stats := Summarize(nil, []Source{mustSource(t, "official", "acme/plugins")})

	assert.Zero(t, stats.TotalRecords)
	require.Len(t, stats.Marketplaces, 1)
	assert.Zero(t, stats.Marketplaces[0].Records)
	assert.Empty(t, stats.Categories)
	assert.Empty(t, stats.Tags)
}

package marketplace

import "sort"

// MarketplaceCount is one source's contribution to the corpus.
type MarketplaceCount struct {
	Name    string
	BaseURL string
	Records int
}

// CategoryCount is one category's record count.
type CategoryCount struct {
	Name    string
	Records int
}

// Stats summarizes a corpus for the list surface.
type Stats struct {
	Marketplaces []MarketplaceCount
	Categories   []CategoryCount
	Tags         []string
	TotalRecords int
}

// Summarize computes corpus statistics. Marketplaces keep source
// configuration order; categories and tags are sorted for display.
func Summarize(records []Record, sources []Source) Stats {
	stats := Stats{TotalRecords: len(records)}

	perSource := make(map[string]int)
	perCategory := make(map[string]int)
	tagSet := make(map[string]struct{})

	for _, rec := range records {
		perSource[rec.Marketplace]++
		if rec.Category != "" {
			perCategory[rec.Category]++
		}
		for _, tag := range rec.Tags {
			tagSet[tag] = struct{}{}
		}
	}

	for _, src := range sources {
		stats.Marketplaces = append(stats.Marketplaces, MarketplaceCount{
			Name:    src.Name(),
			BaseURL: src.BaseURL(),
			Records: perSource[src.Name()],
		})
	}

	for name, count := range perCategory {
		stats.Categories = append(stats.Categories, CategoryCount{Name: name, Records: count})
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		return stats.Categories[i].Name < stats.Categories[j].Name
	})

	for tag := range tagSet {
		stats.Tags = append(stats.Tags, tag)
	}
	sort.Strings(stats.Tags)

	return stats
}

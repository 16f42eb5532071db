package marketplace

import "strings"

// Query carries the search predicate. Every field is optional; an empty
// query matches the whole corpus.
type Query struct {
	// Text is a whitespace-separated term list. A record matches when
	// any term is a case-insensitive substring of its name, description,
	// category, tags, or keywords (OR across terms and fields).
	Text string
	// Category filters by exact case-insensitive category.
	Category string
	// Tags matches records whose tag set intersects (OR, not AND).
	Tags []string
	// Marketplace filters by exact case-insensitive marketplace name.
	Marketplace string
}

// IsZero returns true when the query has no active filters.
func (q Query) IsZero() bool {
	return q.Text == "" && q.Category == "" && len(q.Tags) == 0 && q.Marketplace == ""
}

// Filter applies the query to the corpus. Pure: no enrichment, no I/O.
// Active filters combine with AND; result order preserves corpus order,
// and multiple matching terms never promote a record (no ranking).
func Filter(records []Record, q Query) []Record {
	results := make([]Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, q) {
			results = append(results, rec)
		}
	}
	return results
}

func matches(rec Record, q Query) bool {
	if q.Marketplace != "" && !strings.EqualFold(rec.Marketplace, q.Marketplace) {
		return false
	}

	if q.Category != "" && !strings.EqualFold(rec.Category, q.Category) {
		return false
	}

	if len(q.Tags) > 0 && !intersects(rec.Tags, q.Tags) {
		return false
	}

	if q.Text != "" && !matchesTerms(rec, strings.Fields(strings.ToLower(q.Text))) {
		return false
	}

	return true
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// matchesTerms implements the OR-logic query: at least one term must
// appear in at least one searchable field.
func matchesTerms(rec Record, terms []string) bool {
	searchable := strings.ToLower(strings.Join([]string{
		rec.Name,
		rec.Description,
		rec.Category,
		strings.Join(rec.Tags, " "),
		strings.Join(rec.Keywords, " "),
	}, " "))

	for _, term := range terms {
		if strings.Contains(searchable, term) {
			return true
		}
	}
	return false
}

// SelectByName returns the records whose name exactly matches any of
// the given names, case-insensitively. Used by name-targeted detail
// queries; corpus order is preserved.
func SelectByName(records []Record, names []string) []Record {
	if len(names) == 0 {
		return nil
	}

	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[strings.ToLower(n)] = struct{}{}
	}

	var results []Record
	for _, rec := range records {
		if _, ok := want[strings.ToLower(rec.Name)]; ok {
			results = append(results, rec)
		}
	}
	return results
}

package filter

import (
	"fmt"
	"sort"

	"github.com/robertmeta/postdesk/model"
)

// BuildCriteria constructs Criteria from CLI flags.
// Empty category or author flags mean "any". The search term is kept as given.
func BuildCriteria(view, search, category, author string) (model.Criteria, error) {
	c := model.DefaultCriteria()
	c.Search = search

	if category != "" {
		c.Category = category
	}
	if author != "" {
		c.Author = author
	}

	v, err := model.ParseView(view)
	if err != nil {
		return c, fmt.Errorf("failed to parse --view flag: %w", err)
	}
	c.View = v

	return c, nil
}

// FacetCount is a single filter option with the number of posts carrying it.
type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets holds the option counts used to populate the dashboard's dropdowns.
type Facets struct {
	Categories []FacetCount `json:"categories"`
	Authors    []FacetCount `json:"authors"`
	Statuses   []FacetCount `json:"statuses"`
}

// BuildFacets counts posts per category, author and status. Names in known
// appear even when no post carries them; every list is sorted by name,
// except statuses which follow model.Statuses.
func BuildFacets(posts []*model.Post, knownCategories, knownAuthors []string) Facets {
	categories := make(map[string]int)
	authors := make(map[string]int)
	statuses := make(map[model.Status]int)

	for _, name := range knownCategories {
		categories[name] = 0
	}
	for _, name := range knownAuthors {
		authors[name] = 0
	}

	for _, p := range posts {
		if p == nil {
			continue
		}
		categories[p.Category]++
		authors[p.Author]++
		statuses[p.Status]++
	}

	f := Facets{
		Categories: sortedCounts(categories),
		Authors:    sortedCounts(authors),
		Statuses:   make([]FacetCount, 0, len(model.Statuses)),
	}
	for _, st := range model.Statuses {
		f.Statuses = append(f.Statuses, FacetCount{Name: string(st), Count: statuses[st]})
	}
	return f
}

func sortedCounts(m map[string]int) []FacetCount {
	out := make([]FacetCount, 0, len(m))
	for name, count := range m {
		out = append(out, FacetCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Totals aggregates the analytics of a listing.
type Totals struct {
	Posts             int     `json:"posts"`
	Views             int     `json:"views"`
	Likes             int     `json:"likes"`
	Comments          int     `json:"comments"`
	AvgConversionRate float64 `json:"avg_conversion_rate"`
}

// Summarize sums the analytics counters of posts and averages their
// conversion rate. An empty listing yields zero totals; nil posts are skipped.
func Summarize(posts []*model.Post) Totals {
	var t Totals
	var rate float64
	for _, p := range posts {
		if p == nil {
			continue
		}
		t.Posts++
		t.Views += p.Analytics.Views
		t.Likes += p.Analytics.Likes
		t.Comments += p.Analytics.Comments
		rate += p.Analytics.ConversionRate
	}
	if t.Posts > 0 {
		t.AvgConversionRate = rate / float64(t.Posts)
	}
	return t
}

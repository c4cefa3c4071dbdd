package filter

import (
	"testing"
	"time"

	"github.com/robertmeta/postdesk/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePosts() []*model.Post {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	return []*model.Post{
		{
			ID:       "1",
			Title:    "Getting Started with React and TypeScript",
			Excerpt:  "Learn the basics of using TypeScript with React.",
			Status:   model.StatusPublished,
			Category: "Development",
			Author:   "Jane Cooper",
			Analytics: model.Analytics{
				Views: 1200, Likes: 85, Comments: 12, ConversionRate: 3.2,
			},
		},
		{
			ID:            "2",
			Title:         "Advanced State Management Patterns",
			Excerpt:       "Explore different state management approaches.",
			Status:        model.StatusScheduled,
			ScheduledDate: &date,
			Category:      "Development",
			Author:        "Alex Morgan",
		},
		{
			ID:       "3",
			Title:    "Designing Accessible Forms",
			Excerpt:  "Forms everyone can use, with TypeScript examples.",
			Status:   model.StatusDraft,
			Category: "Design",
			Author:   "Jane Cooper",
			Analytics: model.Analytics{
				Views: 40, Likes: 2, Comments: 0, ConversionRate: 0.8,
			},
		},
		{
			ID:            "4",
			Title:         "Launch Week Recap",
			Status:        model.StatusScheduled,
			ScheduledDate: &date,
			Category:      "Marketing",
			Author:        "Jane Cooper",
		},
	}
}

func ids(posts []*model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func criteria(view model.View, search, category, author string) model.Criteria {
	return model.Criteria{View: view, Search: search, Category: category, Author: author}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria model.Criteria
		expected []string
	}{
		{
			name:     "no criterion active",
			criteria: model.DefaultCriteria(),
			expected: []string{"1", "2", "3", "4"},
		},
		{
			name:     "scheduled view",
			criteria: criteria(model.ViewScheduled, "", model.Any, model.Any),
			expected: []string{"2", "4"},
		},
		{
			name:     "search is case-insensitive",
			criteria: criteria(model.ViewAll, "getting", model.Any, model.Any),
			expected: []string{"1"},
		},
		{
			name:     "search with upper case term",
			criteria: criteria(model.ViewAll, "PATTERNS", model.Any, model.Any),
			expected: []string{"2"},
		},
		{
			name:     "search matches nothing",
			criteria: criteria(model.ViewAll, "xyz", model.Any, model.Any),
			expected: []string{},
		},
		{
			name:     "search ignores excerpt",
			criteria: criteria(model.ViewAll, "typescript", model.Any, model.Any),
			expected: []string{"1"},
		},
		{
			name:     "category",
			criteria: criteria(model.ViewAll, "", "Development", model.Any),
			expected: []string{"1", "2"},
		},
		{
			name:     "category is case-sensitive",
			criteria: criteria(model.ViewAll, "", "development", model.Any),
			expected: []string{},
		},
		{
			name:     "author",
			criteria: criteria(model.ViewAll, "", model.Any, "Jane Cooper"),
			expected: []string{"1", "3", "4"},
		},
		{
			name:     "category and author are conjunctive",
			criteria: criteria(model.ViewAll, "", "Development", "Jane Cooper"),
			expected: []string{"1"},
		},
		{
			name:     "category matches but author does not",
			criteria: criteria(model.ViewAll, "", "Design", "Alex Morgan"),
			expected: []string{},
		},
		{
			name:     "every clause active",
			criteria: criteria(model.ViewScheduled, "recap", "Marketing", "Jane Cooper"),
			expected: []string{"4"},
		},
		{
			name:     "category outside the known set",
			criteria: criteria(model.ViewAll, "", "Cooking", model.Any),
			expected: []string{},
		},
		{
			name:     "compose view shows no listing",
			criteria: criteria(model.ViewCompose, "", model.Any, model.Any),
			expected: []string{},
		},
		{
			name:     "unknown view matches nothing",
			criteria: criteria("archive", "", model.Any, model.Any),
			expected: []string{},
		},
		{
			name:     "empty view behaves like all",
			criteria: criteria("", "", model.Any, model.Any),
			expected: []string{"1", "2", "3", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(samplePosts(), tt.criteria)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestFilter_PublishedAndScheduled(t *testing.T) {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	published := &model.Post{ID: "p", Title: "Published", Status: model.StatusPublished}
	scheduled := &model.Post{ID: "s", Title: "Scheduled", Status: model.StatusScheduled, ScheduledDate: &date}

	got := Filter([]*model.Post{published, scheduled}, criteria(model.ViewScheduled, "", model.Any, model.Any))
	require.Len(t, got, 1)
	assert.Same(t, scheduled, got[0])
}

func TestFilter_UnicodeSearch(t *testing.T) {
	posts := []*model.Post{
		{ID: "1", Title: "Über Caching in Go", Status: model.StatusPublished},
		{ID: "2", Title: "Ünicode Everywhere", Status: model.StatusPublished},
	}

	got := Filter(posts, criteria(model.ViewAll, "über", model.Any, model.Any))
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilter_EmptyInput(t *testing.T) {
	for _, c := range []model.Criteria{
		model.DefaultCriteria(),
		criteria(model.ViewScheduled, "react", "Development", "Jane Cooper"),
		criteria(model.ViewCompose, "", model.Any, model.Any),
	} {
		assert.Empty(t, Filter(nil, c))
		assert.Empty(t, Filter([]*model.Post{}, c))
	}
}

func TestFilter_Identity(t *testing.T) {
	posts := samplePosts()
	got := Filter(posts, model.DefaultCriteria())

	require.Len(t, got, len(posts))
	for i := range posts {
		assert.Same(t, posts[i], got[i])
	}
}

func TestFilter_Idempotent(t *testing.T) {
	posts := samplePosts()
	for _, c := range []model.Criteria{
		model.DefaultCriteria(),
		criteria(model.ViewScheduled, "", model.Any, model.Any),
		criteria(model.ViewAll, "a", "Development", model.Any),
		criteria(model.ViewAll, "", model.Any, "Jane Cooper"),
	} {
		once := Filter(posts, c)
		twice := Filter(once, c)
		assert.Equal(t, ids(once), ids(twice))
	}
}

func TestFilter_SubsequencePreservesOrder(t *testing.T) {
	posts := samplePosts()
	position := make(map[string]int, len(posts))
	for i, p := range posts {
		position[p.ID] = i
	}

	got := Filter(posts, criteria(model.ViewAll, "", model.Any, "Jane Cooper"))
	for i := 1; i < len(got); i++ {
		assert.Less(t, position[got[i-1].ID], position[got[i].ID])
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	posts := samplePosts()
	before := ids(posts)
	firstTitle := posts[0].Title

	got := Filter(posts, criteria(model.ViewScheduled, "", model.Any, model.Any))
	require.NotEmpty(t, got)

	// Writing into the result must not reach the input slice
	got[0] = &model.Post{ID: "replaced"}

	assert.Equal(t, before, ids(posts))
	assert.Equal(t, firstTitle, posts[0].Title)
}

func TestMatch(t *testing.T) {
	p := samplePosts()[0]

	assert.True(t, Match(p, model.DefaultCriteria()))
	assert.True(t, Match(p, criteria(model.ViewAll, "REACT", "Development", "Jane Cooper")))
	assert.False(t, Match(p, criteria(model.ViewScheduled, "", model.Any, model.Any)))
	assert.False(t, Match(p, criteria(model.ViewCompose, "", model.Any, model.Any)))
}

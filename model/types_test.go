package model

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_Validate(t *testing.T) {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		post    Post
		wantErr bool
	}{
		{
			name: "valid published post",
			post: Post{
				ID:     "1",
				Title:  "Getting Started with React and TypeScript",
				Status: StatusPublished,
			},
			wantErr: false,
		},
		{
			name: "valid scheduled post",
			post: Post{
				ID:            "2",
				Title:         "Advanced State Management Patterns",
				Status:        StatusScheduled,
				ScheduledDate: &date,
			},
			wantErr: false,
		},
		{
			name:    "missing ID",
			post:    Post{Title: "No ID", Status: StatusDraft},
			wantErr: true,
		},
		{
			name:    "missing title",
			post:    Post{ID: "3", Status: StatusDraft},
			wantErr: true,
		},
		{
			name:    "unknown status",
			post:    Post{ID: "4", Title: "Archived", Status: "archived"},
			wantErr: true,
		},
		{
			name:    "scheduled without date",
			post:    Post{ID: "5", Title: "Soon", Status: StatusScheduled},
			wantErr: true,
		},
		{
			name:    "draft with date",
			post:    Post{ID: "6", Title: "Draft", Status: StatusDraft, ScheduledDate: &date},
			wantErr: true,
		},
		{
			name: "negative analytics",
			post: Post{
				ID:        "7",
				Title:     "Broken counters",
				Status:    StatusPublished,
				Analytics: Analytics{Views: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPost)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, st := range Statuses {
		got, err := ParseStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	_, err := ParseStatus("Published")
	assert.Error(t, err, "status matching is case-sensitive")
}

func TestParseView(t *testing.T) {
	tests := []struct {
		input   string
		expect  View
		wantErr bool
	}{
		{"", ViewAll, false},
		{"all", ViewAll, false},
		{"scheduled", ViewScheduled, false},
		{"scheduledOnly", ViewScheduled, false},
		{"new", ViewCompose, false},
		{"composeNew", ViewCompose, false},
		{"drafts", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseView(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestPost_IsScheduled(t *testing.T) {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	assert.True(t, (&Post{Status: StatusScheduled, ScheduledDate: &date}).IsScheduled())
	assert.False(t, (&Post{Status: StatusPublished}).IsScheduled())
	assert.False(t, (&Post{Status: StatusDraft}).IsScheduled())
}

func TestCriteria_IsIdentity(t *testing.T) {
	assert.True(t, DefaultCriteria().IsIdentity())

	c := DefaultCriteria()
	c.Search = "react"
	assert.False(t, c.IsIdentity())

	c = DefaultCriteria()
	c.View = ViewScheduled
	assert.False(t, c.IsIdentity())
}

func TestSummarize(t *testing.T) {
	t.Run("short text is kept", func(t *testing.T) {
		assert.Equal(t, "Learn the basics.", Summarize("  Learn   the\nbasics. ", 50))
	})

	t.Run("html is stripped", func(t *testing.T) {
		assert.Equal(t, "Hello world", Summarize("<p>Hello <b>world</b></p>", 50))
		assert.Equal(t, "Tips & tricks", Summarize("<p>Tips &amp; tricks</p>", 50))
		assert.Equal(t, "One Two", Summarize("<p>One</p><p>Two</p>", 50))
	})

	t.Run("markup never leaks into the excerpt", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected string
		}{
			{"quoted bracket in attribute", `<p><a title="x > y" href="/p">Read</a> more</p>`, "Read more"},
			{"style and comment", `<style>p{color:red}</style><p>Hello</p><!-- a > b -->`, "Hello"},
			{"script", `<p>Before</p><script>if (a < b) { alert("x") }</script><p>after</p>`, "Before after"},
			{"self-closing break", `line one<br/>line two`, "line one line two"},
			{"plain comparison", `a < b and c > d`, "a < b and c > d"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, Summarize(tt.input, 80))
			})
		}
	})

	t.Run("long text is cut on a word boundary", func(t *testing.T) {
		got := Summarize("Explore different state management approaches in modern React applications.", 30)
		assert.True(t, strings.HasSuffix(got, "…"))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 30)
		assert.Equal(t, "Explore different state…", got)
	})

	t.Run("zero length uses default", func(t *testing.T) {
		long := strings.Repeat("word ", 100)
		got := Summarize(long, 0)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), DefaultExcerptLength)
	})
}

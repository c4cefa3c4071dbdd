// Package filter narrows a post listing down to the posts matching the
// dashboard's current criteria.
package filter

import (
	"strings"

	"github.com/robertmeta/postdesk/model"
)

// Filter returns the posts that satisfy every active clause of c, in their
// original order. The result is always a new slice; posts is left untouched.
//
// The compose view shows no listing, so it yields an empty result. An empty
// View behaves like ViewAll; any other unknown view matches nothing.
func Filter(posts []*model.Post, c model.Criteria) []*model.Post {
	result := make([]*model.Post, 0, len(posts))
	if c.View == model.ViewCompose {
		return result
	}

	// Lower-case the search term once rather than per post
	search := strings.ToLower(c.Search)

	for _, p := range posts {
		if p != nil && match(p, c, search) {
			result = append(result, p)
		}
	}
	return result
}

// Match reports whether a single post satisfies c.
func Match(p *model.Post, c model.Criteria) bool {
	if c.View == model.ViewCompose {
		return false
	}
	return match(p, c, strings.ToLower(c.Search))
}

func match(p *model.Post, c model.Criteria, search string) bool {
	switch c.View {
	case model.ViewAll, "":
	case model.ViewScheduled:
		if !p.IsScheduled() {
			return false
		}
	default:
		return false
	}

	if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
		return false
	}

	if c.Category != model.Any && p.Category != c.Category {
		return false
	}

	if c.Author != model.Any && p.Author != c.Author {
		return false
	}

	return true
}

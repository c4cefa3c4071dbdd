// Package feed imports blog posts from RSS/Atom feeds.
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/robertmeta/postdesk/model"
)

const (
	// DefaultCategory is used for items that carry no category.
	DefaultCategory = "Uncategorized"
	// DefaultAuthor is used for items that name no author.
	DefaultAuthor = "Unknown"
)

// Fetcher handles fetching and parsing RSS/Atom feeds.
type Fetcher struct {
	parser        *gofeed.Parser
	excerptLength int
}

// NewFetcher creates a new Fetcher. excerptLength bounds the excerpts built
// for imported posts; zero selects model.DefaultExcerptLength.
func NewFetcher(excerptLength int) *Fetcher {
	if excerptLength <= 0 {
		excerptLength = model.DefaultExcerptLength
	}
	return &Fetcher{
		parser:        gofeed.NewParser(),
		excerptLength: excerptLength,
	}
}

// Fetch retrieves a feed from a URL and converts its items to posts.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, []*model.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	parsedFeed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch feed from %s: %w", url, err)
	}

	return parsedFeed.Title, f.convert(parsedFeed), nil
}

// Parse parses feed content from a string and returns the feed title and
// its items as posts.
func (f *Fetcher) Parse(content string) (string, []*model.Post, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil, fmt.Errorf("feed content is empty")
	}

	parsedFeed, err := f.parser.ParseString(content)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return parsedFeed.Title, f.convert(parsedFeed), nil
}

// convert converts every gofeed.Item to a post, in feed order.
// Items repeating an earlier ID are dropped.
func (f *Fetcher) convert(gf *gofeed.Feed) []*model.Post {
	posts := make([]*model.Post, 0, len(gf.Items))
	seen := make(map[string]bool, len(gf.Items))

	for _, item := range gf.Items {
		post := f.convertItem(item)
		if seen[post.ID] {
			continue
		}
		seen[post.ID] = true
		posts = append(posts, post)
	}

	return posts
}

// convertItem converts a gofeed.Item to a published model.Post.
func (f *Fetcher) convertItem(item *gofeed.Item) *model.Post {
	post := &model.Post{
		ID:       item.GUID,
		Title:    strings.TrimSpace(item.Title),
		Content:  item.Content,
		Status:   model.StatusPublished,
		Category: DefaultCategory,
		Author:   DefaultAuthor,
	}

	// Use link as ID if GUID is missing, and a fresh UUID if both are
	if post.ID == "" {
		post.ID = item.Link
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}

	if post.Title == "" {
		post.Title = "Untitled"
	}

	// Prefer the description for the excerpt, fall back to full content
	source := item.Description
	if source == "" {
		source = item.Content
	}
	post.Excerpt = model.Summarize(source, f.excerptLength)

	if len(item.Categories) > 0 && strings.TrimSpace(item.Categories[0]) != "" {
		post.Category = strings.TrimSpace(item.Categories[0])
	}

	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		post.Author = item.Authors[0].Name
	}

	if item.Image != nil {
		post.CoverImage = item.Image.URL
	}

	return post
}

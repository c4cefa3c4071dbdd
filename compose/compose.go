// Package compose implements the dashboard's "new post" form: validating a
// draft and turning it into a post through the Publish, Schedule and
// Save Draft actions.
//
// None of the actions persist anything; they only build the post the
// dashboard would show.
package compose

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robertmeta/postdesk/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// ErrInvalidDraft is wrapped by every draft validation failure.
var ErrInvalidDraft = errors.New("invalid draft")

// md renders previews with GitHub-Flavored Markdown. Raw HTML is escaped.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Draft holds the fields of the new post form.
type Draft struct {
	Title      string `json:"title"`
	CoverImage string `json:"cover_image,omitempty"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	Author     string `json:"author"`
}

// Catalog lists the categories and authors a draft may use.
// An empty list accepts any value.
type Catalog struct {
	Categories []string
	Authors    []string
}

// Composer builds posts from drafts.
type Composer struct {
	catalog       Catalog
	excerptLength int
	newID         func() string
}

// New creates a Composer that checks drafts against catalog.
func New(catalog Catalog, excerptLength int) *Composer {
	if excerptLength <= 0 {
		excerptLength = model.DefaultExcerptLength
	}
	return &Composer{
		catalog:       catalog,
		excerptLength: excerptLength,
		newID:         uuid.NewString,
	}
}

// Validate checks a draft before any action runs.
func (c *Composer) Validate(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidDraft)
	}

	if d.CoverImage != "" {
		u, err := url.Parse(d.CoverImage)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: cover image must be an http(s) URL: %q", ErrInvalidDraft, d.CoverImage)
		}
	}

	if len(c.catalog.Categories) > 0 && !slices.Contains(c.catalog.Categories, d.Category) {
		return fmt.Errorf("%w: unknown category %q (expected one of %s)",
			ErrInvalidDraft, d.Category, strings.Join(c.catalog.Categories, ", "))
	}
	if len(c.catalog.Authors) > 0 && !slices.Contains(c.catalog.Authors, d.Author) {
		return fmt.Errorf("%w: unknown author %q (expected one of %s)",
			ErrInvalidDraft, d.Author, strings.Join(c.catalog.Authors, ", "))
	}

	return nil
}

// Publish builds a published post from d.
func (c *Composer) Publish(d Draft) (*model.Post, error) {
	return c.build(d, model.StatusPublished, nil)
}

// Schedule builds a post scheduled for date. The time of day is dropped.
func (c *Composer) Schedule(d Draft, date time.Time) (*model.Post, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: schedule date is required", ErrInvalidDraft)
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return c.build(d, model.StatusScheduled, &day)
}

// SaveDraft builds a draft post from d.
func (c *Composer) SaveDraft(d Draft) (*model.Post, error) {
	return c.build(d, model.StatusDraft, nil)
}

func (c *Composer) build(d Draft, status model.Status, date *time.Time) (*model.Post, error) {
	if err := c.Validate(d); err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:            c.newID(),
		Title:         strings.TrimSpace(d.Title),
		Excerpt:       model.Summarize(renderOrRaw(d.Content), c.excerptLength),
		Content:       d.Content,
		CoverImage:    d.CoverImage,
		Status:        status,
		ScheduledDate: date,
		Category:      d.Category,
		Author:        d.Author,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}
	return post, nil
}

// Preview renders Markdown content to HTML.
func Preview(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.String(), nil
}

// renderOrRaw renders content so excerpts don't carry Markdown syntax.
func renderOrRaw(content string) string {
	html, err := Preview(content)
	if err != nil {
		return content
	}
	return html
}

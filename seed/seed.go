// Package seed loads post catalogs from YAML files.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/robertmeta/postdesk/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

const dateLayout = "2006-01-02"

// File is the YAML layout of a catalog file.
type File struct {
	Posts []Post `yaml:"posts"`
}

// Post is a single catalog entry as written in YAML.
type Post struct {
	ID            string    `yaml:"id"`
	Title         string    `yaml:"title"`
	Excerpt       string    `yaml:"excerpt"`
	Content       string    `yaml:"content"`
	CoverImage    string    `yaml:"cover_image"`
	Status        string    `yaml:"status"`
	ScheduledDate string    `yaml:"scheduled_date"`
	Category      string    `yaml:"category"`
	Author        string    `yaml:"author"`
	Analytics     Analytics `yaml:"analytics"`
}

// Analytics mirrors model.Analytics with YAML keys.
type Analytics struct {
	Views          int     `yaml:"views"`
	Likes          int     `yaml:"likes"`
	Comments       int     `yaml:"comments"`
	ConversionRate float64 `yaml:"conversion_rate"`
}

// Load reads a YAML catalog and returns its posts in file order.
// Every post is validated; duplicate IDs are rejected.
func Load(r io.Reader) ([]*model.Post, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return []*model.Post{}, nil
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	posts := make([]*model.Post, 0, len(file.Posts))
	seen := make(map[string]bool, len(file.Posts))

	for i, entry := range file.Posts {
		post, err := entry.toModel()
		if err != nil {
			return nil, fmt.Errorf("catalog post #%d: %w", i+1, err)
		}
		if seen[post.ID] {
			return nil, fmt.Errorf("catalog post #%d: duplicate id %q", i+1, post.ID)
		}
		seen[post.ID] = true
		posts = append(posts, post)
	}

	return posts, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) ([]*model.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Default returns the built-in sample catalog.
func Default() ([]*model.Post, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

func (p Post) toModel() (*model.Post, error) {
	post := &model.Post{
		ID:         p.ID,
		Title:      p.Title,
		Excerpt:    p.Excerpt,
		Content:    p.Content,
		CoverImage: p.CoverImage,
		Status:     model.Status(p.Status),
		Category:   p.Category,
		Author:     p.Author,
		Analytics: model.Analytics{
			Views:          p.Analytics.Views,
			Likes:          p.Analytics.Likes,
			Comments:       p.Analytics.Comments,
			ConversionRate: p.Analytics.ConversionRate,
		},
	}

	if p.ScheduledDate != "" {
		date, err := time.Parse(dateLayout, p.ScheduledDate)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduled_date %q (expected YYYY-MM-DD): %w", p.ScheduledDate, err)
		}
		post.ScheduledDate = &date
	}

	// Fill in an excerpt from the content when the catalog leaves it out
	if post.Excerpt == "" && post.Content != "" {
		post.Excerpt = model.Summarize(post.Content, model.DefaultExcerptLength)
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}
	return post, nil
}

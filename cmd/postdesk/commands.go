package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/robertmeta/postdesk/compose"
	"github.com/robertmeta/postdesk/feed"
	"github.com/robertmeta/postdesk/filter"
	"github.com/robertmeta/postdesk/model"
	"github.com/robertmeta/postdesk/rss"
	"github.com/robertmeta/postdesk/seed"
	"github.com/robertmeta/postdesk/store"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func seedCatalog(c *cli.Context) error {
	var posts []*model.Post
	var err error
	source := "built-in sample"

	if c.NArg() > 0 {
		source = c.Args().Get(0)
		posts, err = seed.LoadFile(source)
	} else {
		posts, err = seed.Default()
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to load catalog: %v", err), ExitDataError)
	}

	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	if err := s.SavePosts(posts); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to save posts: %v", err), ExitDataError)
	}

	total, err := s.Count()
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	getRuntime(c).log.Info("seeded catalog", zap.String("source", source), zap.Int("posts", len(posts)))

	return outputJSON(c, map[string]interface{}{
		"success": true,
		"source":  source,
		"seeded":  len(posts),
		"total":   total,
	})
}

func importFeed(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: postdesk import <feed-file-or-url>", ExitUsageError)
	}

	source := c.Args().Get(0)
	rt := getRuntime(c)
	fetcher := feed.NewFetcher(rt.cfg.ExcerptLength)

	var title string
	var posts []*model.Post
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		title, posts, err = fetcher.Fetch(c.Context, source)
	} else {
		var data []byte
		data, err = os.ReadFile(source)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to open feed file: %v", err), ExitDataError)
		}
		title, posts, err = fetcher.Parse(string(data))
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to read feed: %v", err), ExitDataError)
	}

	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	// Import posts one by one so a bad item doesn't block the rest
	imported := 0
	skipped := 0
	errs := []string{}

	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			skipped++
			errs = append(errs, fmt.Sprintf("%s: %v", p.ID, err))
			rt.log.Warn("skipped feed item", zap.String("id", p.ID), zap.Error(err))
			continue
		}
		imported++
	}

	rt.log.Info("imported feed", zap.String("feed", title), zap.Int("imported", imported), zap.Int("skipped", skipped))

	return outputJSON(c, map[string]interface{}{
		"success":  true,
		"feed":     title,
		"imported": imported,
		"skipped":  skipped,
		"total":    len(posts),
		"errors":   errs,
	})
}

// filteredPosts loads the catalog and applies the filter flags of c.
func filteredPosts(c *cli.Context) (model.Criteria, []*model.Post, error) {
	criteria, err := filter.BuildCriteria(
		c.String("view"),
		c.String("search"),
		c.String("category"),
		c.String("author"),
	)
	if err != nil {
		return criteria, nil, cli.Exit(fmt.Sprintf("Invalid filter: %v", err), ExitUsageError)
	}
	if criteria.View == model.ViewCompose {
		return criteria, nil, cli.Exit("The new post view has no listing; use `postdesk new`", ExitUsageError)
	}

	s, err := getStore(c)
	if err != nil {
		return criteria, nil, cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	all, err := s.GetAllPosts()
	if err != nil {
		return criteria, nil, cli.Exit(fmt.Sprintf("Failed to get posts: %v", err), ExitDataError)
	}

	posts := filter.Filter(all, criteria)
	getRuntime(c).log.Debug("filtered posts",
		zap.Any("criteria", criteria), zap.Int("catalog", len(all)), zap.Int("matched", len(posts)))

	return criteria, posts, nil
}

func listPosts(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}

	criteria, posts, err := filteredPosts(c)
	if err != nil {
		return err
	}

	if format == formatTable {
		return writePostTable(c.App.Writer, posts, time.Now())
	}

	return outputJSON(c, map[string]interface{}{
		"count":    len(posts),
		"criteria": criteria,
		"posts":    posts,
	})
}

func showPost(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: postdesk show <post-id>", ExitUsageError)
	}
	format, err := outputFormat(c)
	if err != nil {
		return err
	}

	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	post, err := s.GetPost(c.Args().Get(0))
	if errors.Is(err, store.ErrPostNotFound) {
		return cli.Exit(err.Error(), ExitDataError)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to get post: %v", err), ExitDataError)
	}

	if format == formatTable {
		return writePostDetail(c.App.Writer, post, time.Now())
	}
	return outputJSON(c, post)
}

func showStats(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}

	criteria, posts, err := filteredPosts(c)
	if err != nil {
		return err
	}

	totals := filter.Summarize(posts)
	if format == formatTable {
		return writeTotals(c.App.Writer, totals)
	}

	return outputJSON(c, map[string]interface{}{
		"criteria": criteria,
		"totals":   totals,
	})
}

func listFacets(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}

	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	all, err := s.GetAllPosts()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to get posts: %v", err), ExitDataError)
	}

	cfg := getRuntime(c).cfg
	facets := filter.BuildFacets(all, cfg.Categories, cfg.Authors)

	if format == formatTable {
		return writeFacets(c.App.Writer, facets)
	}
	return outputJSON(c, facets)
}

func composePost(c *cli.Context) error {
	if c.IsSet("schedule") && c.Bool("draft") {
		return cli.Exit("--schedule and --draft cannot be combined", ExitUsageError)
	}

	content := c.String("content")
	if path := c.String("content-file"); path != "" {
		if content != "" {
			return cli.Exit("--content and --content-file cannot be combined", ExitUsageError)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to read content file: %v", err), ExitDataError)
		}
		content = string(data)
	}

	catalog, err := composeCatalog(c)
	if err != nil {
		return err
	}
	composer := compose.New(catalog, getRuntime(c).cfg.ExcerptLength)

	draft := compose.Draft{
		Title:      c.String("title"),
		CoverImage: c.String("cover-image"),
		Content:    content,
		Category:   c.String("category"),
		Author:     c.String("author"),
	}

	var post *model.Post
	action := "publish"

	switch {
	case c.IsSet("schedule"):
		action = "schedule"
		var date time.Time
		date, err = time.Parse("2006-01-02", c.String("schedule"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Invalid --schedule date (expected YYYY-MM-DD): %v", err), ExitUsageError)
		}
		post, err = composer.Schedule(draft, date)
	case c.Bool("draft"):
		action = "draft"
		post, err = composer.SaveDraft(draft)
	default:
		post, err = composer.Publish(draft)
	}
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	preview, err := compose.Preview(post.Content)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	return outputJSON(c, map[string]interface{}{
		"action":    action,
		"persisted": false,
		"post":      post,
		"preview":   preview,
	})
}

// composeCatalog offers the configured categories and authors plus any
// already present in the catalog, e.g. from an imported feed.
func composeCatalog(c *cli.Context) (compose.Catalog, error) {
	cfg := getRuntime(c).cfg

	s, err := getStore(c)
	if err != nil {
		return compose.Catalog{}, cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	categories, err := s.Categories()
	if err != nil {
		return compose.Catalog{}, cli.Exit(fmt.Sprintf("Failed to get categories: %v", err), ExitDataError)
	}
	authors, err := s.Authors()
	if err != nil {
		return compose.Catalog{}, cli.Exit(fmt.Sprintf("Failed to get authors: %v", err), ExitDataError)
	}

	return compose.Catalog{
		Categories: mergeNames(cfg.Categories, categories),
		Authors:    mergeNames(cfg.Authors, authors),
	}, nil
}

func mergeNames(configured, stored []string) []string {
	seen := make(map[string]bool, len(configured)+len(stored))
	out := make([]string, 0, len(configured)+len(stored))
	for _, name := range append(append([]string{}, configured...), stored...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func exportRSS(c *cli.Context) error {
	_, posts, err := filteredPosts(c)
	if err != nil {
		return err
	}

	// Determine output destination
	outputPath := c.String("output")
	var writer io.Writer

	if outputPath == "" {
		writer = c.App.Writer
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to create output file: %v", err), ExitDataError)
		}
		defer file.Close()
		writer = file
	}

	info := rss.ChannelInfo{
		Title: c.String("title"),
		Link:  c.String("link"),
	}
	if err := rss.Generate(writer, posts, info); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to generate RSS: %v", err), ExitDataError)
	}

	// If outputting to file, also return JSON status
	if outputPath != "" {
		return outputJSON(c, map[string]interface{}{
			"success": true,
			"file":    outputPath,
			"count":   len(posts),
		})
	}

	return nil
}

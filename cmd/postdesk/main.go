package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robertmeta/postdesk/config"
	"github.com/robertmeta/postdesk/logging"
	"github.com/robertmeta/postdesk/store"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

const runtimeKey = "runtime"

// runtime carries what every command needs, resolved once in Before.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "postdesk",
		Usage:   "A scriptable blog post dashboard",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Database file path (default from config)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"POSTDESK_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log diagnostics to stderr",
			},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Load a YAML catalog (or the built-in sample) into the database",
				ArgsUsage: "[catalog.yaml]",
				Action:    seedCatalog,
			},
			{
				Name:      "import",
				Usage:     "Import posts from an RSS/Atom feed file or URL",
				ArgsUsage: "<feed-file-or-url>",
				Action:    importFeed,
			},
			{
				Name:   "list",
				Usage:  "List posts matching the current view and filters",
				Flags:  append(filterFlags(), formatFlag()),
				Action: listPosts,
			},
			{
				Name:      "show",
				Usage:     "Show a post with its analytics",
				ArgsUsage: "<post-id>",
				Flags:     []cli.Flag{formatFlag()},
				Action:    showPost,
			},
			{
				Name:   "stats",
				Usage:  "Aggregate analytics of the posts matching the filters",
				Flags:  append(filterFlags(), formatFlag()),
				Action: showStats,
			},
			{
				Name:   "facets",
				Usage:  "List filter options with post counts",
				Flags:  []cli.Flag{formatFlag()},
				Action: listFacets,
			},
			{
				Name:  "new",
				Usage: "Compose a new post (nothing is saved)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Post title", Required: true},
					&cli.StringFlag{Name: "content", Usage: "Markdown content"},
					&cli.StringFlag{Name: "content-file", Usage: "Read Markdown content from a file"},
					&cli.StringFlag{Name: "cover-image", Usage: "Cover image URL"},
					&cli.StringFlag{Name: "category", Usage: "Post category"},
					&cli.StringFlag{Name: "author", Usage: "Post author"},
					&cli.StringFlag{Name: "schedule", Usage: "Schedule for a date (YYYY-MM-DD) instead of publishing now"},
					&cli.BoolFlag{Name: "draft", Usage: "Save as draft instead of publishing now"},
				},
				Action: composePost,
			},
			{
				Name:  "export",
				Usage: "Export posts matching the filters as RSS 2.0",
				Flags: append(filterFlags(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (default: stdout)",
					},
					&cli.StringFlag{Name: "title", Usage: "Channel title"},
					&cli.StringFlag{Name: "link", Usage: "Channel link"},
				),
				Action: exportRSS,
			},
		},
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "view",
			Value: "all",
			Usage: "Dashboard view: all or scheduled",
		},
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Case-insensitive title search",
		},
		&cli.StringFlag{
			Name:  "category",
			Value: "any",
			Usage: "Filter by category",
		},
		&cli.StringFlag{
			Name:  "author",
			Value: "any",
			Usage: "Filter by author",
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "json",
		Usage:   "Output format: json or table",
	}
}

// setup resolves config and logging before any command runs.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}

	logger := logging.Quiet()
	if c.Bool("verbose") {
		if logger, err = logging.NewLogger(cfg.Env); err != nil {
			return cli.Exit(fmt.Sprintf("Failed to create logger: %v", err), ExitGeneralError)
		}
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[runtimeKey] = &runtime{cfg: cfg, log: logger}
	return nil
}

func teardown(c *cli.Context) error {
	if rt, ok := c.App.Metadata[runtimeKey].(*runtime); ok {
		// Sync fails on stderr for some terminals; nothing useful to report
		_ = rt.log.Sync()
	}
	return nil
}

func getRuntime(c *cli.Context) *runtime {
	return c.App.Metadata[runtimeKey].(*runtime)
}

func getStore(c *cli.Context) (*store.Store, error) {
	rt := getRuntime(c)
	dbPath := rt.cfg.DBPath

	// Create directory if it doesn't exist
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	rt.log.Debug("opened catalog", zap.String("path", dbPath))
	return s, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/robertmeta/postdesk/filter"
	"github.com/robertmeta/postdesk/model"
	"github.com/urfave/cli/v2"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

func outputFormat(c *cli.Context) (string, error) {
	switch f := c.String("format"); f {
	case formatJSON, formatTable:
		return f, nil
	default:
		return "", cli.Exit(fmt.Sprintf("Unknown format %q (expected json or table)", f), ExitUsageError)
	}
}

func outputJSON(c *cli.Context, v interface{}) error {
	encoder := json.NewEncoder(c.App.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writePostTable renders a listing the way the dashboard's cards read:
// one row per post with its status badge and headline numbers.
func writePostTable(w io.Writer, posts []*model.Post, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tCATEGORY\tAUTHOR\tVIEWS\tLIKES\tCOMMENTS")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Title,
			statusLabel(p, now),
			p.Category,
			p.Author,
			humanize.Comma(int64(p.Analytics.Views)),
			humanize.Comma(int64(p.Analytics.Likes)),
			humanize.Comma(int64(p.Analytics.Comments)),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", english.Plural(len(posts), "post", "posts"))
	return err
}

// writePostDetail renders a single post card with its analytics panel.
func writePostDetail(w io.Writer, p *model.Post, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Title:\t%s\n", p.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", statusLabel(p, now))
	fmt.Fprintf(tw, "Category:\t%s\n", p.Category)
	fmt.Fprintf(tw, "Author:\t%s\n", p.Author)
	if p.CoverImage != "" {
		fmt.Fprintf(tw, "Cover:\t%s\n", p.CoverImage)
	}
	fmt.Fprintf(tw, "Excerpt:\t%s\n", p.Excerpt)
	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "Views:\t%s\n", humanize.Comma(int64(p.Analytics.Views)))
	fmt.Fprintf(tw, "Likes:\t%s\n", humanize.Comma(int64(p.Analytics.Likes)))
	fmt.Fprintf(tw, "Comments:\t%s\n", humanize.Comma(int64(p.Analytics.Comments)))
	fmt.Fprintf(tw, "Conversion:\t%s%%\n", humanize.FormatFloat("#.##", p.Analytics.ConversionRate))
	return tw.Flush()
}

func writeTotals(w io.Writer, t filter.Totals) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Posts:\t%s\n", humanize.Comma(int64(t.Posts)))
	fmt.Fprintf(tw, "Views:\t%s\n", humanize.Comma(int64(t.Views)))
	fmt.Fprintf(tw, "Likes:\t%s\n", humanize.Comma(int64(t.Likes)))
	fmt.Fprintf(tw, "Comments:\t%s\n", humanize.Comma(int64(t.Comments)))
	fmt.Fprintf(tw, "Avg conversion:\t%s%%\n", humanize.FormatFloat("#.##", t.AvgConversionRate))
	return tw.Flush()
}

func writeFacets(w io.Writer, f filter.Facets) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FACET\tNAME\tPOSTS")
	groups := []struct {
		name   string
		counts []filter.FacetCount
	}{
		{"category", f.Categories},
		{"author", f.Authors},
		{"status", f.Statuses},
	}
	for _, g := range groups {
		for _, fc := range g.counts {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", g.name, fc.Name, fc.Count)
		}
	}
	return tw.Flush()
}

// statusLabel shows the scheduled date next to scheduled posts,
// e.g. "scheduled 2024-03-20 (3 weeks from now)".
func statusLabel(p *model.Post, now time.Time) string {
	if p.ScheduledDate == nil {
		return string(p.Status)
	}
	return fmt.Sprintf("%s %s (%s)",
		p.Status,
		p.ScheduledDate.Format("2006-01-02"),
		humanize.RelTime(*p.ScheduledDate, now, "ago", "from now"),
	)
}

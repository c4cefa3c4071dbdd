// Package rss exports post listings as RSS 2.0 documents.
package rss

import (
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/robertmeta/postdesk/model"
)

// RSS represents the root RSS structure.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel describes the exported listing.
type Channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Generator     string `xml:"generator,omitempty"`
	Items         []Item `xml:"item"`
}

// Item represents a single post in the feed.
type Item struct {
	Title       string     `xml:"title"`
	Description string     `xml:"description,omitempty"`
	Author      string     `xml:"author,omitempty"`
	Category    string     `xml:"category,omitempty"`
	GUID        GUID       `xml:"guid"`
	PubDate     string     `xml:"pubDate,omitempty"`
	Enclosure   *Enclosure `xml:"enclosure,omitempty"`
}

// GUID identifies an item; post IDs are never permalinks.
type GUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// Enclosure carries the post's cover image.
type Enclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int    `xml:"length,attr"`
}

// ChannelInfo holds the channel metadata written around the items.
type ChannelInfo struct {
	Title       string
	Link        string
	Description string
}

// Generate writes posts as an RSS 2.0 document, preserving their order.
// Scheduled posts carry their scheduled date as pubDate.
func Generate(w io.Writer, posts []*model.Post, info ChannelInfo) error {
	if info.Title == "" {
		info.Title = "postdesk posts"
	}
	if info.Description == "" {
		info.Description = info.Title
	}

	doc := RSS{
		Version: "2.0",
		Channel: Channel{
			Title:         info.Title,
			Link:          info.Link,
			Description:   info.Description,
			LastBuildDate: time.Now().UTC().Format(time.RFC1123Z),
			Generator:     "postdesk",
			Items:         make([]Item, 0, len(posts)),
		},
	}

	for _, p := range posts {
		doc.Channel.Items = append(doc.Channel.Items, toItem(p))
	}

	// Write XML with indentation
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	// Write XML declaration
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode RSS: %w", err)
	}

	// Add final newline
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write final newline: %w", err)
	}

	return nil
}

func toItem(p *model.Post) Item {
	item := Item{
		Title:       p.Title,
		Description: p.Excerpt,
		Author:      p.Author,
		Category:    p.Category,
		GUID:        GUID{Value: p.ID},
	}

	if p.ScheduledDate != nil {
		item.PubDate = p.ScheduledDate.UTC().Format(time.RFC1123Z)
	}

	if p.CoverImage != "" {
		item.Enclosure = &Enclosure{
			URL:  p.CoverImage,
			Type: imageType(p.CoverImage),
		}
	}

	return item
}

// imageType guesses the MIME type of an image URL from its extension.
func imageType(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if t := mime.TypeByExtension(path.Ext(url)); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}

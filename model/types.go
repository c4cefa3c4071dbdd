// Package model defines the core data structures for postdesk.
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPost is wrapped by every Post validation failure.
var ErrInvalidPost = errors.New("invalid post")

// Status is the publication state of a post.
type Status string

const (
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
	StatusDraft     Status = "draft"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusPublished, StatusScheduled, StatusDraft}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status: %q (expected published, scheduled, or draft)", s)
}

// Analytics holds the informational counters shown in a post's analytics panel.
type Analytics struct {
	Views          int     `json:"views"`
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
	ConversionRate float64 `json:"conversion_rate"` // percentage
}

// Post represents a single blog entry.
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content,omitempty"`
	CoverImage    string     `json:"cover_image,omitempty"`
	Status        Status     `json:"status"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Category      string     `json:"category"`
	Author        string     `json:"author"`
	Analytics     Analytics  `json:"analytics"`
}

// Validate checks required fields and that ScheduledDate agrees with Status.
func (p *Post) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidPost)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPost)
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}
	if p.Status == StatusScheduled && p.ScheduledDate == nil {
		return fmt.Errorf("%w: scheduled post %s has no scheduled date", ErrInvalidPost, p.ID)
	}
	if p.Status != StatusScheduled && p.ScheduledDate != nil {
		return fmt.Errorf("%w: %s post %s carries a scheduled date", ErrInvalidPost, p.Status, p.ID)
	}
	a := p.Analytics
	if a.Views < 0 || a.Likes < 0 || a.Comments < 0 || a.ConversionRate < 0 {
		return fmt.Errorf("%w: analytics of post %s must be non-negative", ErrInvalidPost, p.ID)
	}
	return nil
}

// IsScheduled returns true if the post is waiting for its scheduled date.
func (p *Post) IsScheduled() bool {
	return p.Status == StatusScheduled
}

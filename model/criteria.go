package model

import "fmt"

// Any disables the category or author clause of a Criteria.
const Any = "any"

// View is the dashboard tab that gates the post listing.
type View string

const (
	ViewAll       View = "all"
	ViewScheduled View = "scheduled"
	// ViewCompose shows the new post form instead of a listing.
	ViewCompose View = "new"
)

// ParseView converts a tab name to a View. The long forms used by the
// dashboard (scheduledOnly, composeNew) are accepted too.
func ParseView(s string) (View, error) {
	switch s {
	case "", "all":
		return ViewAll, nil
	case "scheduled", "scheduledOnly":
		return ViewScheduled, nil
	case "new", "composeNew":
		return ViewCompose, nil
	default:
		return "", fmt.Errorf("unknown view: %q (expected all, scheduled, or new)", s)
	}
}

// Criteria is the query the user has currently composed.
type Criteria struct {
	View     View   `json:"view"`
	Search   string `json:"search"`
	Category string `json:"category"`
	Author   string `json:"author"`
}

// DefaultCriteria returns the criteria of a freshly opened dashboard.
func DefaultCriteria() Criteria {
	return Criteria{
		View:     ViewAll,
		Category: Any,
		Author:   Any,
	}
}

// IsIdentity reports whether no criterion narrows the listing.
func (c Criteria) IsIdentity() bool {
	return c.View == ViewAll && c.Search == "" && c.Category == Any && c.Author == Any
}

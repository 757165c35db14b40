package domain

import "time"

// Resource is a saved study link (article, video, tool) organized by
// category. Pinned resources list first.
type Resource struct {
	ID        int64
	UserID    int64
	Title     string
	URL       string
	Category  string
	Note      string
	Pinned    bool
	CreatedAt time.Time
}

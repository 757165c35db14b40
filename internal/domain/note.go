package domain

import "time"

// DayNote is a dated journal note independent of any single trade.
type DayNote struct {
	ID      int64
	UserID  int64
	Date    time.Time
	Summary string
	Content string
}

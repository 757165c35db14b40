package domain

import "time"

// WatchlistItem is a trade idea being tracked before (or instead of) entry.
type WatchlistItem struct {
	ID           int64
	UserID       int64
	Symbol       string  // Normalized to uppercase
	TargetPrice  float64 // Planned entry/target price
	StopLoss     float64 // Planned stop level
	ExpectedMove float64 // Expected move in percent
	SetupType    string  // e.g. "Breakout", "Pullback"
	Confidence   string
	DateAdded    time.Time
	Notes        string
	Status       WatchlistStatus
}

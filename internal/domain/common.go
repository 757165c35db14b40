package domain

// TradeStatus represents the lifecycle status of a trade.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "Open"
	StatusClosed TradeStatus = "Closed"
)

// WatchlistStatus represents the status of a watchlist idea.
type WatchlistStatus string

const (
	WatchlistOpen   WatchlistStatus = "Open"
	WatchlistClosed WatchlistStatus = "Closed"
)

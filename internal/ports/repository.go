package ports

import (
	"context"

	"tradejournal/internal/domain"
)

// TradeRepository defines the interface for storing and retrieving trades and
// their entry/exit ledgers.
//
// Mutating methods that touch the ledger (Create/Update/Delete of entries and
// exits) persist the event row and the owning trade's derived state (status,
// first-entry date, last-exit date) in a single transaction, so a validation
// or write failure never leaves a partial mutation behind.
type TradeRepository interface {
	// CreateTrade saves a new trade and returns its assigned ID.
	CreateTrade(ctx context.Context, trade *domain.Trade) (int64, error)
	// FindTradeByID retrieves a trade with its full ledger loaded, entries and
	// exits ordered by date then insertion order. Returns nil, nil if not found.
	FindTradeByID(ctx context.Context, id int64) (*domain.Trade, error)
	// FindTradesByUser retrieves all trades owned by a user with ledgers
	// loaded, ordered by trade id ascending (insertion order).
	FindTradesByUser(ctx context.Context, userID int64) ([]*domain.Trade, error)
	// UpdateTrade persists the trade's own fields (symbol, journal, status, dates).
	UpdateTrade(ctx context.Context, trade *domain.Trade) error
	// DeleteTrade removes the trade and its entire ledger.
	DeleteTrade(ctx context.Context, id int64) error

	// CreateEntry appends a buy event and persists the trade's recomputed
	// derived state atomically. Returns the entry's assigned ID.
	CreateEntry(ctx context.Context, trade *domain.Trade, entry *domain.Entry) (int64, error)
	// UpdateEntry modifies a buy event and persists the trade's recomputed
	// derived state atomically.
	UpdateEntry(ctx context.Context, trade *domain.Trade, entry *domain.Entry) error
	// DeleteEntry removes a buy event and persists the trade's recomputed
	// derived state atomically.
	DeleteEntry(ctx context.Context, trade *domain.Trade, entryID int64) error
	// FindEntryByID retrieves a buy event. Returns nil, nil if not found.
	FindEntryByID(ctx context.Context, id int64) (*domain.Entry, error)

	// CreateExit, UpdateExit, DeleteExit and FindExitByID mirror the entry
	// methods for sell events.
	CreateExit(ctx context.Context, trade *domain.Trade, exit *domain.Exit) (int64, error)
	UpdateExit(ctx context.Context, trade *domain.Trade, exit *domain.Exit) error
	DeleteExit(ctx context.Context, trade *domain.Trade, exitID int64) error
	FindExitByID(ctx context.Context, id int64) (*domain.Exit, error)
}

// WatchlistRepository defines the interface for storing watchlist ideas.
type WatchlistRepository interface {
	CreateItem(ctx context.Context, item *domain.WatchlistItem) (int64, error)
	UpdateItem(ctx context.Context, item *domain.WatchlistItem) error
	DeleteItem(ctx context.Context, id int64) error
	// FindItemByID returns nil, nil if not found.
	FindItemByID(ctx context.Context, id int64) (*domain.WatchlistItem, error)
	// FindItemsByUser returns the user's watchlist ordered by date added descending.
	FindItemsByUser(ctx context.Context, userID int64) ([]*domain.WatchlistItem, error)
}

// ResourceRepository defines the interface for storing study resources.
type ResourceRepository interface {
	CreateResource(ctx context.Context, res *domain.Resource) (int64, error)
	UpdateResource(ctx context.Context, res *domain.Resource) error
	DeleteResource(ctx context.Context, id int64) error
	// FindResourceByID returns nil, nil if not found.
	FindResourceByID(ctx context.Context, id int64) (*domain.Resource, error)
	// FindResourcesByUser returns the user's resources, pinned first.
	FindResourcesByUser(ctx context.Context, userID int64) ([]*domain.Resource, error)
}

// NoteRepository defines the interface for storing day notes.
type NoteRepository interface {
	CreateNote(ctx context.Context, note *domain.DayNote) (int64, error)
	UpdateNote(ctx context.Context, note *domain.DayNote) error
	DeleteNote(ctx context.Context, id int64) error
	// FindNoteByID returns nil, nil if not found.
	FindNoteByID(ctx context.Context, id int64) (*domain.DayNote, error)
	// FindNotesByUser returns the user's notes ordered by date descending.
	FindNotesByUser(ctx context.Context, userID int64) ([]*domain.DayNote, error)
}

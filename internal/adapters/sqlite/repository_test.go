package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tradejournal-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}
	return repo, cleanup
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRepository_CreateAndFindTrade(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	trade := &domain.Trade{
		UserID:    1,
		Symbol:    "TCS",
		Status:    domain.StatusOpen,
		Journal:   "Breakout",
		CreatedAt: time.Now(),
	}
	id, err := repo.CreateTrade(ctx, trade)
	require.NoError(t, err)
	require.Positive(t, id)

	found, err := repo.FindTradeByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "TCS", found.Symbol)
	assert.Equal(t, domain.StatusOpen, found.Status)
	assert.Equal(t, "Breakout", found.Journal)
	assert.Nil(t, found.FirstEntryDate)
	assert.Empty(t, found.Entries)
	assert.Empty(t, found.Exits)
}

func TestRepository_FindTradeByIDNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	found, err := repo.FindTradeByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepository_LedgerOrderedByDateThenID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	trade := &domain.Trade{UserID: 1, Symbol: "INFY", Status: domain.StatusOpen, CreatedAt: time.Now()}
	_, err := repo.CreateTrade(ctx, trade)
	require.NoError(t, err)

	// Insert out of date order.
	later := &domain.Entry{TradeID: trade.ID, Quantity: 5, Price: 110, Date: day(2025, 3, 10)}
	trade.Entries = append(trade.Entries, later)
	trade.Recompute()
	_, err = repo.CreateEntry(ctx, trade, later)
	require.NoError(t, err)

	earlier := &domain.Entry{TradeID: trade.ID, Quantity: 5, Price: 100, Date: day(2025, 3, 1)}
	trade.Entries = append(trade.Entries, earlier)
	trade.Recompute()
	_, err = repo.CreateEntry(ctx, trade, earlier)
	require.NoError(t, err)

	found, err := repo.FindTradeByID(ctx, trade.ID)
	require.NoError(t, err)
	require.Len(t, found.Entries, 2)
	assert.Equal(t, int64(5), found.Entries[0].Quantity)
	assert.True(t, found.Entries[0].Date.Before(found.Entries[1].Date))
	require.NotNil(t, found.FirstEntryDate)
	assert.True(t, found.FirstEntryDate.Equal(day(2025, 3, 1)))
}

func TestRepository_ExitClosesTradeAtomically(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	trade := &domain.Trade{UserID: 1, Symbol: "TCS", Status: domain.StatusOpen, CreatedAt: time.Now()}
	_, err := repo.CreateTrade(ctx, trade)
	require.NoError(t, err)

	entry := &domain.Entry{TradeID: trade.ID, Quantity: 10, Price: 100, Date: day(2025, 4, 1)}
	trade.Entries = append(trade.Entries, entry)
	trade.Recompute()
	_, err = repo.CreateEntry(ctx, trade, entry)
	require.NoError(t, err)

	exit := &domain.Exit{TradeID: trade.ID, Quantity: 10, Price: 120, Date: day(2025, 4, 9)}
	trade.Exits = append(trade.Exits, exit)
	trade.Recompute()
	_, err = repo.CreateExit(ctx, trade, exit)
	require.NoError(t, err)

	found, err := repo.FindTradeByID(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, found.Status)
	require.NotNil(t, found.LastExitDate)
	assert.True(t, found.LastExitDate.Equal(day(2025, 4, 9)))
}

func TestRepository_DeleteTradeCascades(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	trade := &domain.Trade{UserID: 1, Symbol: "TCS", Status: domain.StatusOpen, CreatedAt: time.Now()}
	_, err := repo.CreateTrade(ctx, trade)
	require.NoError(t, err)

	entry := &domain.Entry{TradeID: trade.ID, Quantity: 10, Price: 100, Date: day(2025, 4, 1)}
	trade.Entries = append(trade.Entries, entry)
	trade.Recompute()
	_, err = repo.CreateEntry(ctx, trade, entry)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTrade(ctx, trade.ID))

	found, err := repo.FindTradeByID(ctx, trade.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	orphan, err := repo.FindEntryByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan)
}

func TestRepository_DeleteTradeNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.DeleteTrade(context.Background(), 12345)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_FindTradesByUserLoadsLedgers(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		trade := &domain.Trade{UserID: 7, Symbol: "TCS", Status: domain.StatusOpen, CreatedAt: time.Now()}
		_, err := repo.CreateTrade(ctx, trade)
		require.NoError(t, err)

		entry := &domain.Entry{TradeID: trade.ID, Quantity: 10, Price: 100, Date: day(2025, 5, 1+i)}
		trade.Entries = append(trade.Entries, entry)
		trade.Recompute()
		_, err = repo.CreateEntry(ctx, trade, entry)
		require.NoError(t, err)
	}
	// A different user's trade must not leak in.
	other := &domain.Trade{UserID: 8, Symbol: "INFY", Status: domain.StatusOpen, CreatedAt: time.Now()}
	_, err := repo.CreateTrade(ctx, other)
	require.NoError(t, err)

	trades, err := repo.FindTradesByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Less(t, trades[0].ID, trades[1].ID)
	for _, tr := range trades {
		assert.Len(t, tr.Entries, 1)
	}
}

func TestRepository_WatchlistCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	item := &domain.WatchlistItem{
		UserID:       1,
		Symbol:       "RELIANCE",
		TargetPrice:  2500,
		StopLoss:     2350,
		ExpectedMove: 8,
		SetupType:    "Breakout",
		Confidence:   "High",
		DateAdded:    day(2025, 6, 1),
		Status:       domain.WatchlistOpen,
	}
	id, err := repo.CreateItem(ctx, item)
	require.NoError(t, err)

	item.StopLoss = 2400
	item.Status = domain.WatchlistClosed
	require.NoError(t, repo.UpdateItem(ctx, item))

	found, err := repo.FindItemByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 2400.0, found.StopLoss)
	assert.Equal(t, domain.WatchlistClosed, found.Status)

	items, err := repo.FindItemsByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.DeleteItem(ctx, id))
	found, err = repo.FindItemByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepository_ResourcesCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	plain := &domain.Resource{UserID: 1, Title: "Breakout playbook", URL: "https://example.com/playbook", Category: "Articles", CreatedAt: time.Now()}
	_, err := repo.CreateResource(ctx, plain)
	require.NoError(t, err)

	pinned := &domain.Resource{UserID: 1, Title: "Sizing sheet", URL: "https://example.com/sizing", Pinned: true, CreatedAt: time.Now()}
	_, err = repo.CreateResource(ctx, pinned)
	require.NoError(t, err)

	// Pinned first, then insertion order.
	list, err := repo.FindResourcesByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, pinned.ID, list[0].ID)
	assert.Equal(t, plain.ID, list[1].ID)

	plain.Category = "Watch later"
	plain.Pinned = true
	require.NoError(t, repo.UpdateResource(ctx, plain))

	found, err := repo.FindResourceByID(ctx, plain.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Watch later", found.Category)
	assert.True(t, found.Pinned)

	require.NoError(t, repo.DeleteResource(ctx, plain.ID))
	err = repo.DeleteResource(ctx, plain.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	found, err = repo.FindResourceByID(ctx, plain.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepository_NotesCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	note := &domain.DayNote{UserID: 1, Date: day(2025, 6, 2), Summary: "Choppy day", Content: "Sat out most of it."}
	id, err := repo.CreateNote(ctx, note)
	require.NoError(t, err)

	note.Summary = "Choppy open, trend close"
	require.NoError(t, repo.UpdateNote(ctx, note))

	found, err := repo.FindNoteByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Choppy open, trend close", found.Summary)

	notes, err := repo.FindNotesByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	require.NoError(t, repo.DeleteNote(ctx, id))
	err = repo.DeleteNote(ctx, id)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

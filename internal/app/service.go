package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/pnl"
	"tradejournal/internal/ports"
	"tradejournal/internal/stats"
	"tradejournal/internal/utils"
)

// JournalService orchestrates the trading journal's operations: trade and
// ledger mutations, statistics, watchlist and day notes.
type JournalService struct {
	logger     ports.Logger
	trades     ports.TradeRepository
	watchlist  ports.WatchlistRepository
	notes      ports.NoteRepository
	resources  ports.ResourceRepository
	cache      ports.SnapshotCache
	stockLimit int
	now        func() time.Time

	// mu guards tradeLocks. Each trade gets its own mutex so concurrent
	// mutations of the same ledger serialize while distinct trades proceed
	// in parallel.
	mu         sync.Mutex
	tradeLocks map[int64]*sync.Mutex
}

// Deps holds the collaborators required by NewJournalService.
type Deps struct {
	Logger     ports.Logger
	Trades     ports.TradeRepository
	Watchlist  ports.WatchlistRepository
	Notes      ports.NoteRepository
	Resources  ports.ResourceRepository
	Cache      ports.SnapshotCache
	StockLimit int
}

// NewJournalService creates a new application service instance.
func NewJournalService(deps Deps) (*JournalService, error) {
	if deps.Logger == nil || deps.Trades == nil || deps.Watchlist == nil || deps.Notes == nil || deps.Resources == nil || deps.Cache == nil {
		return nil, fmt.Errorf("missing required dependencies for JournalService")
	}
	if deps.StockLimit <= 0 {
		return nil, fmt.Errorf("StockLimit must be positive")
	}
	return &JournalService{
		logger:     deps.Logger,
		trades:     deps.Trades,
		watchlist:  deps.Watchlist,
		notes:      deps.Notes,
		resources:  deps.Resources,
		cache:      deps.Cache,
		stockLimit: deps.StockLimit,
		now:        time.Now,
		tradeLocks: make(map[int64]*sync.Mutex),
	}, nil
}

// tradeLock returns the mutex serializing mutations of one trade's ledger.
func (s *JournalService) tradeLock(tradeID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.tradeLocks[tradeID]
	if !ok {
		m = &sync.Mutex{}
		s.tradeLocks[tradeID] = m
	}
	return m
}

// EventInput carries the fields of a buy or sell event coming in from the
// outer layer.
type EventInput struct {
	Quantity int64
	Price    float64
	Date     time.Time
	Note     string
}

func validateEvent(in EventInput) error {
	if in.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", ports.ErrInvalidQuantity)
	}
	if in.Price <= 0 {
		return fmt.Errorf("price must be positive: %w", ports.ErrInvalidPrice)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("date is required: %w", ports.ErrInvalidDate)
	}
	return nil
}

// --- Trades ---

// CreateTrade opens a new empty trade for the user. The symbol is normalized
// to uppercase.
func (s *JournalService) CreateTrade(ctx context.Context, userID int64, symbol, journal string) (*domain.Trade, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required: %w", ports.ErrInvalidSymbol)
	}

	trade := &domain.Trade{
		UserID:    userID,
		Symbol:    symbol,
		Status:    domain.StatusOpen,
		Journal:   journal,
		CreatedAt: s.now(),
	}
	if _, err := s.trades.CreateTrade(ctx, trade); err != nil {
		s.logger.Error(ctx, err, "Failed to create trade", map[string]interface{}{"userID": userID, "symbol": symbol})
		return nil, err
	}
	s.cache.InvalidateUser(userID)
	s.logger.Info(ctx, "Trade created", map[string]interface{}{"tradeID": trade.ID, "symbol": symbol})
	return trade, nil
}

// GetTrade loads a trade with its ledger, enforcing ownership.
func (s *JournalService) GetTrade(ctx context.Context, userID, tradeID int64) (*domain.Trade, error) {
	trade, err := s.trades.FindTradeByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, fmt.Errorf("trade %d: %w", tradeID, ports.ErrNotFound)
	}
	if trade.UserID != userID {
		return nil, fmt.Errorf("trade %d: %w", tradeID, ports.ErrUnauthorized)
	}
	return trade, nil
}

// UpdateTrade changes a trade's own fields (symbol, journal). Ledger-derived
// state is untouched.
func (s *JournalService) UpdateTrade(ctx context.Context, userID, tradeID int64, symbol, journal string) (*domain.Trade, error) {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	trade, err := s.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required: %w", ports.ErrInvalidSymbol)
	}
	trade.Symbol = symbol
	trade.Journal = journal
	if err := s.trades.UpdateTrade(ctx, trade); err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(userID)
	return trade, nil
}

// DeleteTrade removes a trade and its whole ledger.
func (s *JournalService) DeleteTrade(ctx context.Context, userID, tradeID int64) error {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.GetTrade(ctx, userID, tradeID); err != nil {
		return err
	}
	if err := s.trades.DeleteTrade(ctx, tradeID); err != nil {
		return err
	}
	s.cache.InvalidateUser(userID)
	s.logger.Info(ctx, "Trade deleted", map[string]interface{}{"tradeID": tradeID})
	return nil
}

// TradeRow is a dashboard view of one trade with its derived numbers.
type TradeRow struct {
	ID             int64      `json:"id"`
	Symbol         string     `json:"symbol"`
	Status         string     `json:"status"`
	Journal        string     `json:"journal"`
	BoughtQty      int64      `json:"boughtQty"`
	SoldQty        int64      `json:"soldQty"`
	RemainingQty   int64      `json:"remainingQty"`
	AvgEntryPrice  float64    `json:"avgEntryPrice"`
	AvgExitPrice   float64    `json:"avgExitPrice"`
	Invested       float64    `json:"invested"`
	Exited         float64    `json:"exited"`
	RealizedPnL    float64    `json:"realizedPnl"`
	HoldingDays    int        `json:"holdingDays"`
	FirstEntryDate *time.Time `json:"firstEntryDate"`
	LastExitDate   *time.Time `json:"lastExitDate"`
}

// ListTrades returns dashboard rows for all of the user's trades in insertion
// order. Closed trades report full-ledger P&L; open trades with partial exits
// report the P&L of the exited portion against the average entry price.
func (s *JournalService) ListTrades(ctx context.Context, userID int64) ([]TradeRow, error) {
	trades, err := s.trades.FindTradesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([]TradeRow, 0, len(trades))
	for _, t := range trades {
		row := TradeRow{
			ID:             t.ID,
			Symbol:         t.Symbol,
			Status:         string(t.Status),
			Journal:        t.Journal,
			BoughtQty:      t.BoughtQty(),
			SoldQty:        t.SoldQty(),
			RemainingQty:   t.RemainingQty(),
			AvgEntryPrice:  utils.Round2(pnl.AverageEntryPrice(t)),
			AvgExitPrice:   utils.Round2(pnl.AverageExitPrice(t)),
			Invested:       utils.Round2(pnl.TotalInvested(t)),
			Exited:         utils.Round2(pnl.TotalExited(t)),
			HoldingDays:    pnl.HoldingDays(t),
			FirstEntryDate: t.FirstEntryDate,
			LastExitDate:   t.LastExitDate,
		}
		if t.Status == domain.StatusClosed {
			row.RealizedPnL = utils.Round2(pnl.RealizedPnL(t))
		} else {
			row.RealizedPnL = utils.Round2(pnl.ExitedPnL(t))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// --- Ledger mutations ---

// AddEntry records a buy against an open trade.
func (s *JournalService) AddEntry(ctx context.Context, userID, tradeID int64, in EventInput) (*domain.Entry, error) {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	trade, err := s.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	if trade.SoldQty() > trade.BoughtQty() {
		return nil, fmt.Errorf("trade %d sold %d exceeds bought %d: %w",
			tradeID, trade.SoldQty(), trade.BoughtQty(), ports.ErrOversold)
	}
	if trade.IsClosed() {
		return nil, fmt.Errorf("trade %d: %w", tradeID, ports.ErrTradeAlreadyClosed)
	}

	entry := &domain.Entry{
		TradeID:  tradeID,
		Quantity: in.Quantity,
		Price:    in.Price,
		Date:     in.Date,
		Note:     in.Note,
	}
	trade.Entries = append(trade.Entries, entry)
	trade.Recompute()

	if _, err := s.trades.CreateEntry(ctx, trade, entry); err != nil {
		s.logger.Error(ctx, err, "Failed to record entry", map[string]interface{}{"tradeID": tradeID})
		return nil, err
	}
	s.cache.InvalidateUser(userID)
	s.logger.Info(ctx, "Entry recorded", map[string]interface{}{
		"tradeID": tradeID, "entryID": entry.ID, "quantity": in.Quantity, "price": in.Price,
	})
	return entry, nil
}

// AddExit records a sell against a trade. The quantity may not exceed what is
// still held; selling the last held unit closes the trade.
func (s *JournalService) AddExit(ctx context.Context, userID, tradeID int64, in EventInput) (*domain.Exit, error) {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	trade, err := s.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	if remaining := trade.RemainingQty(); in.Quantity > remaining {
		return nil, fmt.Errorf("sell quantity %d exceeds remaining %d: %w", in.Quantity, remaining, ports.ErrInsufficientQuantity)
	}

	exit := &domain.Exit{
		TradeID:  tradeID,
		Quantity: in.Quantity,
		Price:    in.Price,
		Date:     in.Date,
		Note:     in.Note,
	}
	trade.Exits = append(trade.Exits, exit)
	trade.Recompute()

	if _, err := s.trades.CreateExit(ctx, trade, exit); err != nil {
		s.logger.Error(ctx, err, "Failed to record exit", map[string]interface{}{"tradeID": tradeID})
		return nil, err
	}
	s.cache.InvalidateUser(userID)
	s.logger.Info(ctx, "Exit recorded", map[string]interface{}{
		"tradeID": tradeID, "exitID": exit.ID, "quantity": in.Quantity, "price": in.Price, "status": trade.Status,
	})
	return exit, nil
}

// EditEntry modifies a buy event. The edit is rejected when it would shrink
// total bought below what has already been sold.
func (s *JournalService) EditEntry(ctx context.Context, userID, tradeID, entryID int64, in EventInput) (*domain.Entry, error) {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	trade, err := s.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	entry := trade.FindEntry(entryID)
	if entry == nil {
		return nil, fmt.Errorf("entry %d: %w", entryID, ports.ErrNotFound)
	}

	otherBought := trade.BoughtQty() - entry.Quantity
	if otherBought+in.Quantity < trade.SoldQty() {
		return nil, fmt.Errorf("total bought %d would drop below sold %d: %w",
			otherBought+in.Quantity, trade.SoldQty(), ports.ErrOversold)
	}

	entry.Quantity = in.Quantity
	entry.Price = in.Price
	entry.Date = in.Date
	entry.Note = in.Note
	trade.Recompute()

	if err := s.trades.UpdateEntry(ctx, trade, entry); err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(userID)
	return entry, nil
}

// EditExit modifies a sell event. The edit is rejected when it would push
// total sold above total bought.
func (s *JournalService) EditExit(ctx context.Context, userID, tradeID, exitID int64, in EventInput) (*domain.Exit, error) {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	trade, err := s.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	exit := trade.FindExit(exitID)
	if exit == nil {
		return nil, fmt.Errorf("exit %d: %w", exitID, ports.ErrNotFound)
	}

	otherSold := trade.SoldQty() - exit.Quantity
	if available := trade.BoughtQty() - otherSold; in.Quantity > available {
		return nil, fmt.Errorf("sell quantity %d exceeds available %d: %w", in.Quantity, available, ports.ErrInsufficientQuantity)
	}

	exit.Quantity = in.Quantity
	exit.Price = in.Price
	exit.Date = in.Date
	exit.Note = in.Note
	trade.Recompute()

	if err := s.trades.UpdateExit(ctx, trade, exit); err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(userID)
	return exit, nil
}

// DeleteEntry removes a buy event. Removing an entry from a closed trade
// reopens it; the delete is rejected when it would leave more sold than
// bought.
func (s *JournalService) DeleteEntry(ctx context.Context, userID, tradeID, entryID int64) error {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	trade, err := s.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return err
	}
	entry := trade.FindEntry(entryID)
	if entry == nil {
		return fmt.Errorf("entry %d: %w", entryID, ports.ErrNotFound)
	}
	if trade.BoughtQty()-entry.Quantity < trade.SoldQty() {
		return fmt.Errorf("total bought %d would drop below sold %d: %w",
			trade.BoughtQty()-entry.Quantity, trade.SoldQty(), ports.ErrOversold)
	}

	trade.RemoveEntry(entryID)
	trade.Recompute()

	if err := s.trades.DeleteEntry(ctx, trade, entryID); err != nil {
		return err
	}
	s.cache.InvalidateUser(userID)
	s.logger.Info(ctx, "Entry deleted", map[string]interface{}{"tradeID": tradeID, "entryID": entryID, "status": trade.Status})
	return nil
}

// DeleteExit removes a sell event. Removing an exit from a closed trade
// reopens it.
func (s *JournalService) DeleteExit(ctx context.Context, userID, tradeID, exitID int64) error {
	lock := s.tradeLock(tradeID)
	lock.Lock()
	defer lock.Unlock()

	trade, err := s.GetTrade(ctx, userID, tradeID)
	if err != nil {
		return err
	}
	if trade.FindExit(exitID) == nil {
		return fmt.Errorf("exit %d: %w", exitID, ports.ErrNotFound)
	}

	trade.RemoveExit(exitID)
	trade.Recompute()

	if err := s.trades.DeleteExit(ctx, trade, exitID); err != nil {
		return err
	}
	s.cache.InvalidateUser(userID)
	s.logger.Info(ctx, "Exit deleted", map[string]interface{}{"tradeID": tradeID, "exitID": exitID, "status": trade.Status})
	return nil
}

// --- Statistics ---

func statsKey(userID int64, r stats.Range, tag string) string {
	return fmt.Sprintf("stats:%d:%s:%s", userID, r, strings.ToLower(tag))
}

// Stats returns the user's statistics snapshot for the given range and
// optional journal tag, serving from cache when possible.
func (s *JournalService) Stats(ctx context.Context, userID int64, rangeStr, tag string) (*stats.Snapshot, error) {
	r := stats.ParseRange(rangeStr)
	tag = strings.TrimSpace(tag)
	key := statsKey(userID, r, tag)

	if cached, ok := s.cache.Get(key); ok {
		if snap, ok := cached.(*stats.Snapshot); ok {
			s.logger.Debug(ctx, "Stats served from cache", map[string]interface{}{"key": key})
			return snap, nil
		}
	}

	trades, err := s.trades.FindTradesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap := stats.Compute(trades, stats.Filter{Range: r, Tag: tag}, s.now(), s.stockLimit)
	s.cache.Set(userID, key, snap)
	return snap, nil
}

// RefreshStats drops the cached snapshot for the given filter and recomputes
// it.
func (s *JournalService) RefreshStats(ctx context.Context, userID int64, rangeStr, tag string) (*stats.Snapshot, error) {
	s.cache.Delete(statsKey(userID, stats.ParseRange(rangeStr), strings.TrimSpace(tag)))
	return s.Stats(ctx, userID, rangeStr, tag)
}

// Summary returns the rolling P&L summary (this month, last 3 months, current
// quarter, current year).
func (s *JournalService) Summary(ctx context.Context, userID int64) (stats.PLSummary, error) {
	trades, err := s.trades.FindTradesByUser(ctx, userID)
	if err != nil {
		return stats.PLSummary{}, err
	}
	return stats.Summarize(trades, s.now()), nil
}

// CalendarEvents returns entry/exit events for calendar rendering.
func (s *JournalService) CalendarEvents(ctx context.Context, userID int64) ([]stats.CalendarEvent, error) {
	trades, err := s.trades.FindTradesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.Events(trades), nil
}

// ExportHistory writes the user's closed-trade history as CSV.
func (s *JournalService) ExportHistory(ctx context.Context, userID int64, w io.Writer) error {
	trades, err := s.trades.FindTradesByUser(ctx, userID)
	if err != nil {
		return err
	}
	return utils.WriteTradeHistoryCSV(w, trades)
}

// --- Watchlist ---

// WatchlistInput carries the fields of a watchlist idea coming in from the
// outer layer.
type WatchlistInput struct {
	Symbol       string
	TargetPrice  float64
	StopLoss     float64
	ExpectedMove float64
	SetupType    string
	Confidence   string
	DateAdded    time.Time
	Notes        string
}

func (in *WatchlistInput) validate() error {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	if in.Symbol == "" {
		return fmt.Errorf("symbol is required: %w", ports.ErrInvalidSymbol)
	}
	if in.TargetPrice <= 0 || in.StopLoss <= 0 {
		return fmt.Errorf("target and stop prices must be positive: %w", ports.ErrInvalidPrice)
	}
	return nil
}

// AddWatchlistItem records a new trade idea.
func (s *JournalService) AddWatchlistItem(ctx context.Context, userID int64, in WatchlistInput) (*domain.WatchlistItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	dateAdded := in.DateAdded
	if dateAdded.IsZero() {
		dateAdded = s.now()
	}
	item := &domain.WatchlistItem{
		UserID:       userID,
		Symbol:       in.Symbol,
		TargetPrice:  in.TargetPrice,
		StopLoss:     in.StopLoss,
		ExpectedMove: in.ExpectedMove,
		SetupType:    in.SetupType,
		Confidence:   in.Confidence,
		DateAdded:    dateAdded,
		Notes:        in.Notes,
		Status:       domain.WatchlistOpen,
	}
	if _, err := s.watchlist.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateWatchlistItem modifies an existing trade idea, enforcing ownership.
func (s *JournalService) UpdateWatchlistItem(ctx context.Context, userID, itemID int64, in WatchlistInput, status domain.WatchlistStatus) (*domain.WatchlistItem, error) {
	item, err := s.getWatchlistItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item.Symbol = in.Symbol
	item.TargetPrice = in.TargetPrice
	item.StopLoss = in.StopLoss
	item.ExpectedMove = in.ExpectedMove
	item.SetupType = in.SetupType
	item.Confidence = in.Confidence
	item.Notes = in.Notes
	if !in.DateAdded.IsZero() {
		item.DateAdded = in.DateAdded
	}
	if status != "" {
		item.Status = status
	}
	if err := s.watchlist.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteWatchlistItem removes a trade idea, enforcing ownership.
func (s *JournalService) DeleteWatchlistItem(ctx context.Context, userID, itemID int64) error {
	if _, err := s.getWatchlistItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.watchlist.DeleteItem(ctx, itemID)
}

// Watchlist returns the user's ideas, most recently added first.
func (s *JournalService) Watchlist(ctx context.Context, userID int64) ([]*domain.WatchlistItem, error) {
	return s.watchlist.FindItemsByUser(ctx, userID)
}

func (s *JournalService) getWatchlistItem(ctx context.Context, userID, itemID int64) (*domain.WatchlistItem, error) {
	item, err := s.watchlist.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("watchlist item %d: %w", itemID, ports.ErrNotFound)
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("watchlist item %d: %w", itemID, ports.ErrUnauthorized)
	}
	return item, nil
}

// --- Study resources ---

// ResourceInput carries the fields of a study resource coming in from the
// outer layer.
type ResourceInput struct {
	Title    string
	URL      string
	Category string
	Note     string
	Pinned   bool
}

func (in *ResourceInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if in.Title == "" || in.URL == "" {
		return fmt.Errorf("title and url are required: %w", ports.ErrInvalidRequest)
	}
	return nil
}

// AddResource records a study link.
func (s *JournalService) AddResource(ctx context.Context, userID int64, in ResourceInput) (*domain.Resource, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	res := &domain.Resource{
		UserID:    userID,
		Title:     in.Title,
		URL:       in.URL,
		Category:  in.Category,
		Note:      in.Note,
		Pinned:    in.Pinned,
		CreatedAt: s.now(),
	}
	if _, err := s.resources.CreateResource(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateResource modifies a study link, enforcing ownership.
func (s *JournalService) UpdateResource(ctx context.Context, userID, resourceID int64, in ResourceInput) (*domain.Resource, error) {
	res, err := s.getResource(ctx, userID, resourceID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	res.Title = in.Title
	res.URL = in.URL
	res.Category = in.Category
	res.Note = in.Note
	res.Pinned = in.Pinned
	if err := s.resources.UpdateResource(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteResource removes a study link, enforcing ownership.
func (s *JournalService) DeleteResource(ctx context.Context, userID, resourceID int64) error {
	if _, err := s.getResource(ctx, userID, resourceID); err != nil {
		return err
	}
	return s.resources.DeleteResource(ctx, resourceID)
}

// Resources returns the user's study links, pinned first.
func (s *JournalService) Resources(ctx context.Context, userID int64) ([]*domain.Resource, error) {
	return s.resources.FindResourcesByUser(ctx, userID)
}

func (s *JournalService) getResource(ctx context.Context, userID, resourceID int64) (*domain.Resource, error) {
	res, err := s.resources.FindResourceByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("resource %d: %w", resourceID, ports.ErrNotFound)
	}
	if res.UserID != userID {
		return nil, fmt.Errorf("resource %d: %w", resourceID, ports.ErrUnauthorized)
	}
	return res, nil
}

// --- Day notes ---

// AddNote records a trading-day note.
func (s *JournalService) AddNote(ctx context.Context, userID int64, date time.Time, summary, content string) (*domain.DayNote, error) {
	if strings.TrimSpace(summary) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("summary and content are required: %w", ports.ErrInvalidRequest)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("date is required: %w", ports.ErrInvalidDate)
	}
	note := &domain.DayNote{UserID: userID, Date: date, Summary: summary, Content: content}
	if _, err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote modifies a day note, enforcing ownership.
func (s *JournalService) UpdateNote(ctx context.Context, userID, noteID int64, summary, content string) (*domain.DayNote, error) {
	note, err := s.getNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(summary) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("summary and content are required: %w", ports.ErrInvalidRequest)
	}
	note.Summary = summary
	note.Content = content
	if err := s.notes.UpdateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes a day note, enforcing ownership.
func (s *JournalService) DeleteNote(ctx context.Context, userID, noteID int64) error {
	if _, err := s.getNote(ctx, userID, noteID); err != nil {
		return err
	}
	return s.notes.DeleteNote(ctx, noteID)
}

// Notes returns the user's day notes, most recent first.
func (s *JournalService) Notes(ctx context.Context, userID int64) ([]*domain.DayNote, error) {
	return s.notes.FindNotesByUser(ctx, userID)
}

func (s *JournalService) getNote(ctx context.Context, userID, noteID int64) (*domain.DayNote, error) {
	note, err := s.notes.FindNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note %d: %w", noteID, ports.ErrNotFound)
	}
	if note.UserID != userID {
		return nil, fmt.Errorf("note %d: %w", noteID, ports.ErrUnauthorized)
	}
	return note, nil
}

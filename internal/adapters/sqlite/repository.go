package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.TradeRepository, ports.WatchlistRepository,
// ports.ResourceRepository and ports.NoteRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/journal.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency under the per-trade mutation locks.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite database ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		status TEXT NOT NULL,
		journal TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		first_entry_date TIMESTAMP DEFAULT NULL,
		last_exit_date TIMESTAMP DEFAULT NULL
	);

	CREATE TABLE IF NOT EXISTS trade_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		date TIMESTAMP NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS trade_exits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		date TIMESTAMP NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		target_price REAL NOT NULL,
		stop_loss REAL NOT NULL,
		expected_move REAL NOT NULL,
		setup_type TEXT NOT NULL,
		confidence TEXT NOT NULL DEFAULT '',
		date_added TIMESTAMP NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS resources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		pinned BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TIMESTAMP NOT NULL,
		summary TEXT NOT NULL,
		content TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_user ON trades (user_id);
	CREATE INDEX IF NOT EXISTS idx_trade_entries_trade ON trade_entries (trade_id);
	CREATE INDEX IF NOT EXISTS idx_trade_exits_trade ON trade_exits (trade_id);
	CREATE INDEX IF NOT EXISTS idx_watchlist_user ON watchlist (user_id);
	CREATE INDEX IF NOT EXISTS idx_resources_user ON resources (user_id);
	CREATE INDEX IF NOT EXISTS idx_day_notes_user ON day_notes (user_id);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// persistErr wraps an infrastructure failure as the opaque persistence sentinel.
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ports.ErrPersistence, err)
}

// withTx runs fn inside a transaction, rolling back on error.
func (r *Repository) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr(op+": begin", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return persistErr(op+": commit", err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// --- TradeRepository implementation ---

// CreateTrade saves a new trade and returns its assigned ID.
func (r *Repository) CreateTrade(ctx context.Context, trade *domain.Trade) (int64, error) {
	const query = `
	INSERT INTO trades (user_id, symbol, status, journal, created_at, first_entry_date, last_exit_date)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		trade.UserID, trade.Symbol, trade.Status, trade.Journal, trade.CreatedAt,
		nullTime(trade.FirstEntryDate), nullTime(trade.LastExitDate))
	if err != nil {
		return 0, persistErr(fmt.Sprintf("insert trade for symbol %s", trade.Symbol), err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, persistErr("last insert id for trade", err)
	}
	trade.ID = id
	r.logger.Debug(ctx, "Trade created", map[string]interface{}{"tradeID": id, "symbol": trade.Symbol})
	return id, nil
}

// FindTradeByID retrieves a trade with its full ledger loaded.
func (r *Repository) FindTradeByID(ctx context.Context, id int64) (*domain.Trade, error) {
	const query = `
	SELECT id, user_id, symbol, status, journal, created_at, first_entry_date, last_exit_date
	FROM trades
	WHERE id = ?`

	trade, err := scanTrade(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr(fmt.Sprintf("query trade %d", id), err)
	}

	if err := r.loadLedger(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// FindTradesByUser retrieves all trades owned by a user with ledgers loaded,
// ordered by trade id ascending.
func (r *Repository) FindTradesByUser(ctx context.Context, userID int64) ([]*domain.Trade, error) {
	const query = `
	SELECT id, user_id, symbol, status, journal, created_at, first_entry_date, last_exit_date
	FROM trades
	WHERE user_id = ?
	ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, persistErr(fmt.Sprintf("query trades for user %d", userID), err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	byID := make(map[int64]*domain.Trade)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, persistErr("scan trade", err)
		}
		trades = append(trades, trade)
		byID[trade.ID] = trade
	}
	if err = rows.Err(); err != nil {
		return nil, persistErr("iterate trade rows", err)
	}

	const entryQuery = `
	SELECT e.id, e.trade_id, e.quantity, e.price, e.date, e.note
	FROM trade_entries e
	JOIN trades t ON t.id = e.trade_id
	WHERE t.user_id = ?
	ORDER BY e.date ASC, e.id ASC`
	erows, err := r.db.QueryContext(ctx, entryQuery, userID)
	if err != nil {
		return nil, persistErr(fmt.Sprintf("query entries for user %d", userID), err)
	}
	defer erows.Close()
	for erows.Next() {
		e := &domain.Entry{}
		if err := erows.Scan(&e.ID, &e.TradeID, &e.Quantity, &e.Price, &e.Date, &e.Note); err != nil {
			return nil, persistErr("scan entry", err)
		}
		if t, ok := byID[e.TradeID]; ok {
			t.Entries = append(t.Entries, e)
		}
	}
	if err = erows.Err(); err != nil {
		return nil, persistErr("iterate entry rows", err)
	}

	const exitQuery = `
	SELECT x.id, x.trade_id, x.quantity, x.price, x.date, x.note
	FROM trade_exits x
	JOIN trades t ON t.id = x.trade_id
	WHERE t.user_id = ?
	ORDER BY x.date ASC, x.id ASC`
	xrows, err := r.db.QueryContext(ctx, exitQuery, userID)
	if err != nil {
		return nil, persistErr(fmt.Sprintf("query exits for user %d", userID), err)
	}
	defer xrows.Close()
	for xrows.Next() {
		x := &domain.Exit{}
		if err := xrows.Scan(&x.ID, &x.TradeID, &x.Quantity, &x.Price, &x.Date, &x.Note); err != nil {
			return nil, persistErr("scan exit", err)
		}
		if t, ok := byID[x.TradeID]; ok {
			t.Exits = append(t.Exits, x)
		}
	}
	if err = xrows.Err(); err != nil {
		return nil, persistErr("iterate exit rows", err)
	}

	return trades, nil
}

// UpdateTrade persists the trade's own fields.
func (r *Repository) UpdateTrade(ctx context.Context, trade *domain.Trade) error {
	return r.withTx(ctx, "update trade", func(tx *sql.Tx) error {
		return updateTradeTx(ctx, tx, trade)
	})
}

// DeleteTrade removes the trade and its entire ledger.
func (r *Repository) DeleteTrade(ctx context.Context, id int64) error {
	return r.withTx(ctx, "delete trade", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trade_entries WHERE trade_id = ?`, id); err != nil {
			return persistErr(fmt.Sprintf("delete entries of trade %d", id), err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM trade_exits WHERE trade_id = ?`, id); err != nil {
			return persistErr(fmt.Sprintf("delete exits of trade %d", id), err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
		if err != nil {
			return persistErr(fmt.Sprintf("delete trade %d", id), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return persistErr("rows affected for delete trade", err)
		}
		if affected == 0 {
			return fmt.Errorf("trade %d: %w", id, ports.ErrNotFound)
		}
		return nil
	})
}

// CreateEntry appends a buy event and persists the trade's recomputed derived
// state in one transaction.
func (r *Repository) CreateEntry(ctx context.Context, trade *domain.Trade, entry *domain.Entry) (int64, error) {
	var id int64
	err := r.withTx(ctx, "create entry", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO trade_entries (trade_id, quantity, price, date, note) VALUES (?, ?, ?, ?, ?)`,
			entry.TradeID, entry.Quantity, entry.Price, entry.Date, entry.Note)
		if err != nil {
			return persistErr(fmt.Sprintf("insert entry for trade %d", entry.TradeID), err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return persistErr("last insert id for entry", err)
		}
		return updateTradeTx(ctx, tx, trade)
	})
	if err != nil {
		return 0, err
	}
	entry.ID = id
	r.logger.Debug(ctx, "Entry created", map[string]interface{}{"entryID": id, "tradeID": entry.TradeID})
	return id, nil
}

// UpdateEntry modifies a buy event and persists the trade's recomputed
// derived state in one transaction.
func (r *Repository) UpdateEntry(ctx context.Context, trade *domain.Trade, entry *domain.Entry) error {
	return r.withTx(ctx, "update entry", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE trade_entries SET quantity = ?, price = ?, date = ?, note = ? WHERE id = ?`,
			entry.Quantity, entry.Price, entry.Date, entry.Note, entry.ID)
		if err != nil {
			return persistErr(fmt.Sprintf("update entry %d", entry.ID), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return persistErr("rows affected for update entry", err)
		}
		if affected == 0 {
			return fmt.Errorf("entry %d: %w", entry.ID, ports.ErrNotFound)
		}
		return updateTradeTx(ctx, tx, trade)
	})
}

// DeleteEntry removes a buy event and persists the trade's recomputed derived
// state in one transaction.
func (r *Repository) DeleteEntry(ctx context.Context, trade *domain.Trade, entryID int64) error {
	return r.withTx(ctx, "delete entry", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM trade_entries WHERE id = ?`, entryID)
		if err != nil {
			return persistErr(fmt.Sprintf("delete entry %d", entryID), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return persistErr("rows affected for delete entry", err)
		}
		if affected == 0 {
			return fmt.Errorf("entry %d: %w", entryID, ports.ErrNotFound)
		}
		return updateTradeTx(ctx, tx, trade)
	})
}

// FindEntryByID retrieves a buy event.
func (r *Repository) FindEntryByID(ctx context.Context, id int64) (*domain.Entry, error) {
	e := &domain.Entry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, trade_id, quantity, price, date, note FROM trade_entries WHERE id = ?`, id).
		Scan(&e.ID, &e.TradeID, &e.Quantity, &e.Price, &e.Date, &e.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr(fmt.Sprintf("query entry %d", id), err)
	}
	return e, nil
}

// CreateExit appends a sell event and persists the trade's recomputed derived
// state in one transaction.
func (r *Repository) CreateExit(ctx context.Context, trade *domain.Trade, exit *domain.Exit) (int64, error) {
	var id int64
	err := r.withTx(ctx, "create exit", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO trade_exits (trade_id, quantity, price, date, note) VALUES (?, ?, ?, ?, ?)`,
			exit.TradeID, exit.Quantity, exit.Price, exit.Date, exit.Note)
		if err != nil {
			return persistErr(fmt.Sprintf("insert exit for trade %d", exit.TradeID), err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return persistErr("last insert id for exit", err)
		}
		return updateTradeTx(ctx, tx, trade)
	})
	if err != nil {
		return 0, err
	}
	exit.ID = id
	r.logger.Debug(ctx, "Exit created", map[string]interface{}{"exitID": id, "tradeID": exit.TradeID})
	return id, nil
}

// UpdateExit modifies a sell event and persists the trade's recomputed
// derived state in one transaction.
func (r *Repository) UpdateExit(ctx context.Context, trade *domain.Trade, exit *domain.Exit) error {
	return r.withTx(ctx, "update exit", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE trade_exits SET quantity = ?, price = ?, date = ?, note = ? WHERE id = ?`,
			exit.Quantity, exit.Price, exit.Date, exit.Note, exit.ID)
		if err != nil {
			return persistErr(fmt.Sprintf("update exit %d", exit.ID), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return persistErr("rows affected for update exit", err)
		}
		if affected == 0 {
			return fmt.Errorf("exit %d: %w", exit.ID, ports.ErrNotFound)
		}
		return updateTradeTx(ctx, tx, trade)
	})
}

// DeleteExit removes a sell event and persists the trade's recomputed derived
// state in one transaction.
func (r *Repository) DeleteExit(ctx context.Context, trade *domain.Trade, exitID int64) error {
	return r.withTx(ctx, "delete exit", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM trade_exits WHERE id = ?`, exitID)
		if err != nil {
			return persistErr(fmt.Sprintf("delete exit %d", exitID), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return persistErr("rows affected for delete exit", err)
		}
		if affected == 0 {
			return fmt.Errorf("exit %d: %w", exitID, ports.ErrNotFound)
		}
		return updateTradeTx(ctx, tx, trade)
	})
}

// FindExitByID retrieves a sell event.
func (r *Repository) FindExitByID(ctx context.Context, id int64) (*domain.Exit, error) {
	x := &domain.Exit{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, trade_id, quantity, price, date, note FROM trade_exits WHERE id = ?`, id).
		Scan(&x.ID, &x.TradeID, &x.Quantity, &x.Price, &x.Date, &x.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr(fmt.Sprintf("query exit %d", id), err)
	}
	return x, nil
}

func updateTradeTx(ctx context.Context, tx *sql.Tx, trade *domain.Trade) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE trades SET symbol = ?, status = ?, journal = ?, first_entry_date = ?, last_exit_date = ? WHERE id = ?`,
		trade.Symbol, trade.Status, trade.Journal,
		nullTime(trade.FirstEntryDate), nullTime(trade.LastExitDate), trade.ID)
	if err != nil {
		return persistErr(fmt.Sprintf("update trade %d", trade.ID), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistErr("rows affected for update trade", err)
	}
	if affected == 0 {
		return fmt.Errorf("trade %d: %w", trade.ID, ports.ErrNotFound)
	}
	return nil
}

func (r *Repository) loadLedger(ctx context.Context, trade *domain.Trade) error {
	erows, err := r.db.QueryContext(ctx,
		`SELECT id, trade_id, quantity, price, date, note FROM trade_entries WHERE trade_id = ? ORDER BY date ASC, id ASC`,
		trade.ID)
	if err != nil {
		return persistErr(fmt.Sprintf("query entries of trade %d", trade.ID), err)
	}
	defer erows.Close()
	for erows.Next() {
		e := &domain.Entry{}
		if err := erows.Scan(&e.ID, &e.TradeID, &e.Quantity, &e.Price, &e.Date, &e.Note); err != nil {
			return persistErr("scan entry", err)
		}
		trade.Entries = append(trade.Entries, e)
	}
	if err = erows.Err(); err != nil {
		return persistErr("iterate entry rows", err)
	}

	xrows, err := r.db.QueryContext(ctx,
		`SELECT id, trade_id, quantity, price, date, note FROM trade_exits WHERE trade_id = ? ORDER BY date ASC, id ASC`,
		trade.ID)
	if err != nil {
		return persistErr(fmt.Sprintf("query exits of trade %d", trade.ID), err)
	}
	defer xrows.Close()
	for xrows.Next() {
		x := &domain.Exit{}
		if err := xrows.Scan(&x.ID, &x.TradeID, &x.Quantity, &x.Price, &x.Date, &x.Note); err != nil {
			return persistErr("scan exit", err)
		}
		trade.Exits = append(trade.Exits, x)
	}
	if err = xrows.Err(); err != nil {
		return persistErr("iterate exit rows", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var firstEntry, lastExit sql.NullTime
	if err := row.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Status, &t.Journal, &t.CreatedAt, &firstEntry, &lastExit); err != nil {
		return nil, err
	}
	t.FirstEntryDate = timePtr(firstEntry)
	t.LastExitDate = timePtr(lastExit)
	return t, nil
}

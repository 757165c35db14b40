package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
)

// --- WatchlistRepository implementation ---

func (r *Repository) CreateItem(ctx context.Context, item *domain.WatchlistItem) (int64, error) {
	const query = `
	INSERT INTO watchlist (user_id, symbol, target_price, stop_loss, expected_move, setup_type, confidence, date_added, notes, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		item.UserID, item.Symbol, item.TargetPrice, item.StopLoss, item.ExpectedMove,
		item.SetupType, item.Confidence, item.DateAdded, item.Notes, item.Status)
	if err != nil {
		return 0, persistErr(fmt.Sprintf("insert watchlist item %s", item.Symbol), err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, persistErr("last insert id for watchlist item", err)
	}
	item.ID = id
	return id, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *domain.WatchlistItem) error {
	const query = `
	UPDATE watchlist
	SET symbol = ?, target_price = ?, stop_loss = ?, expected_move = ?, setup_type = ?,
	    confidence = ?, date_added = ?, notes = ?, status = ?
	WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		item.Symbol, item.TargetPrice, item.StopLoss, item.ExpectedMove, item.SetupType,
		item.Confidence, item.DateAdded, item.Notes, item.Status, item.ID)
	if err != nil {
		return persistErr(fmt.Sprintf("update watchlist item %d", item.ID), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistErr("rows affected for update watchlist item", err)
	}
	if affected == 0 {
		return fmt.Errorf("watchlist item %d: %w", item.ID, ports.ErrNotFound)
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM watchlist WHERE id = ?`, id)
	if err != nil {
		return persistErr(fmt.Sprintf("delete watchlist item %d", id), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistErr("rows affected for delete watchlist item", err)
	}
	if affected == 0 {
		return fmt.Errorf("watchlist item %d: %w", id, ports.ErrNotFound)
	}
	return nil
}

func (r *Repository) FindItemByID(ctx context.Context, id int64) (*domain.WatchlistItem, error) {
	item := &domain.WatchlistItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, symbol, target_price, stop_loss, expected_move, setup_type, confidence, date_added, notes, status
		 FROM watchlist WHERE id = ?`, id).
		Scan(&item.ID, &item.UserID, &item.Symbol, &item.TargetPrice, &item.StopLoss,
			&item.ExpectedMove, &item.SetupType, &item.Confidence, &item.DateAdded, &item.Notes, &item.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr(fmt.Sprintf("query watchlist item %d", id), err)
	}
	return item, nil
}

func (r *Repository) FindItemsByUser(ctx context.Context, userID int64) ([]*domain.WatchlistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, symbol, target_price, stop_loss, expected_move, setup_type, confidence, date_added, notes, status
		 FROM watchlist WHERE user_id = ? ORDER BY date_added DESC, id DESC`, userID)
	if err != nil {
		return nil, persistErr(fmt.Sprintf("query watchlist for user %d", userID), err)
	}
	defer rows.Close()

	items := make([]*domain.WatchlistItem, 0)
	for rows.Next() {
		item := &domain.WatchlistItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Symbol, &item.TargetPrice, &item.StopLoss,
			&item.ExpectedMove, &item.SetupType, &item.Confidence, &item.DateAdded, &item.Notes, &item.Status); err != nil {
			return nil, persistErr("scan watchlist item", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, persistErr("iterate watchlist rows", err)
	}
	return items, nil
}

// --- NoteRepository implementation ---

func (r *Repository) CreateNote(ctx context.Context, note *domain.DayNote) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO day_notes (user_id, date, summary, content) VALUES (?, ?, ?, ?)`,
		note.UserID, note.Date, note.Summary, note.Content)
	if err != nil {
		return 0, persistErr("insert day note", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, persistErr("last insert id for day note", err)
	}
	note.ID = id
	return id, nil
}

func (r *Repository) UpdateNote(ctx context.Context, note *domain.DayNote) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE day_notes SET date = ?, summary = ?, content = ? WHERE id = ?`,
		note.Date, note.Summary, note.Content, note.ID)
	if err != nil {
		return persistErr(fmt.Sprintf("update day note %d", note.ID), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistErr("rows affected for update day note", err)
	}
	if affected == 0 {
		return fmt.Errorf("day note %d: %w", note.ID, ports.ErrNotFound)
	}
	return nil
}

func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM day_notes WHERE id = ?`, id)
	if err != nil {
		return persistErr(fmt.Sprintf("delete day note %d", id), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistErr("rows affected for delete day note", err)
	}
	if affected == 0 {
		return fmt.Errorf("day note %d: %w", id, ports.ErrNotFound)
	}
	return nil
}

func (r *Repository) FindNoteByID(ctx context.Context, id int64) (*domain.DayNote, error) {
	note := &domain.DayNote{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, summary, content FROM day_notes WHERE id = ?`, id).
		Scan(&note.ID, &note.UserID, &note.Date, &note.Summary, &note.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr(fmt.Sprintf("query day note %d", id), err)
	}
	return note, nil
}

func (r *Repository) FindNotesByUser(ctx context.Context, userID int64) ([]*domain.DayNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, summary, content FROM day_notes WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, persistErr(fmt.Sprintf("query day notes for user %d", userID), err)
	}
	defer rows.Close()

	notes := make([]*domain.DayNote, 0)
	for rows.Next() {
		note := &domain.DayNote{}
		if err := rows.Scan(&note.ID, &note.UserID, &note.Date, &note.Summary, &note.Content); err != nil {
			return nil, persistErr("scan day note", err)
		}
		notes = append(notes, note)
	}
	if err = rows.Err(); err != nil {
		return nil, persistErr("iterate day note rows", err)
	}
	return notes, nil
}

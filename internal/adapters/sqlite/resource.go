package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
)

// --- ResourceRepository implementation ---

func (r *Repository) CreateResource(ctx context.Context, res *domain.Resource) (int64, error) {
	const query = `
	INSERT INTO resources (user_id, title, url, category, note, pinned, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		res.UserID, res.Title, res.URL, res.Category, res.Note, res.Pinned, res.CreatedAt)
	if err != nil {
		return 0, persistErr(fmt.Sprintf("insert resource %q", res.Title), err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, persistErr("last insert id for resource", err)
	}
	res.ID = id
	return id, nil
}

func (r *Repository) UpdateResource(ctx context.Context, res *domain.Resource) error {
	const query = `
	UPDATE resources
	SET title = ?, url = ?, category = ?, note = ?, pinned = ?
	WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		res.Title, res.URL, res.Category, res.Note, res.Pinned, res.ID)
	if err != nil {
		return persistErr(fmt.Sprintf("update resource %d", res.ID), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistErr("rows affected for update resource", err)
	}
	if affected == 0 {
		return fmt.Errorf("resource %d: %w", res.ID, ports.ErrNotFound)
	}
	return nil
}

func (r *Repository) DeleteResource(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return persistErr(fmt.Sprintf("delete resource %d", id), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistErr("rows affected for delete resource", err)
	}
	if affected == 0 {
		return fmt.Errorf("resource %d: %w", id, ports.ErrNotFound)
	}
	return nil
}

func (r *Repository) FindResourceByID(ctx context.Context, id int64) (*domain.Resource, error) {
	res := &domain.Resource{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, url, category, note, pinned, created_at
		 FROM resources WHERE id = ?`, id).
		Scan(&res.ID, &res.UserID, &res.Title, &res.URL, &res.Category, &res.Note, &res.Pinned, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, persistErr(fmt.Sprintf("query resource %d", id), err)
	}
	return res, nil
}

// FindResourcesByUser returns the user's resources, pinned first, then by
// insertion order.
func (r *Repository) FindResourcesByUser(ctx context.Context, userID int64) ([]*domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, url, category, note, pinned, created_at
		 FROM resources WHERE user_id = ? ORDER BY pinned DESC, id ASC`, userID)
	if err != nil {
		return nil, persistErr(fmt.Sprintf("query resources for user %d", userID), err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		res := &domain.Resource{}
		if err := rows.Scan(&res.ID, &res.UserID, &res.Title, &res.URL, &res.Category, &res.Note, &res.Pinned, &res.CreatedAt); err != nil {
			return nil, persistErr("scan resource", err)
		}
		resources = append(resources, res)
	}
	if err = rows.Err(); err != nil {
		return nil, persistErr("iterate resource rows", err)
	}
	return resources, nil
}

// repository/item/repo.go
package item

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kawinmuthukumar/BackendLending/model"
)

type Repo interface {
	Create(ctx context.Context, it *model.Item) error
	Get(ctx context.Context, id string) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
	UpdateDetails(ctx context.Context, id, name, description string) (bool, error)

	// Transactional methods used by the borrow coordinator.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Item, error)
	UpdateStatusIf(ctx context.Context, tx *sql.Tx, id string, from, to model.ItemStatus) (bool, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id string, to model.ItemStatus) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, it *model.Item) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	it.Status = model.ItemAvailable
	return r.db.QueryRowContext(ctx, `
		INSERT INTO items (id, name, description, owner_id, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		it.ID, it.Name, it.Description, it.OwnerID, it.Status,
	).Scan(&it.CreatedAt)
}

func (r *repo) Get(ctx context.Context, id string) (*model.Item, error) {
	const q = `
		SELECT id, name, description, owner_id, status, created_at
		FROM items
		WHERE id = $1`
	it := &model.Item{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&it.ID, &it.Name, &it.Description, &it.OwnerID, &it.Status, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repo) List(ctx context.Context) ([]model.Item, error) {
	const q = `
		SELECT id, name, description, owner_id, status, created_at
		FROM items
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.OwnerID, &it.Status, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateDetails touches name/description only. Status never goes through
// here; availability is owned by the borrow coordinator.
func (r *repo) UpdateDetails(ctx context.Context, id, name, description string) (bool, error) {
	const q = `
		UPDATE items
		SET name = $2, description = $3
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, name, description)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Item, error) {
	const q = `
		SELECT id, name, description, owner_id, status, created_at
		FROM items
		WHERE id = $1
		FOR UPDATE`
	it := &model.Item{}
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&it.ID, &it.Name, &it.Description, &it.OwnerID, &it.Status, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// UpdateStatusIf flips status only from the expected current value; zero
// rows affected means a racer got there first.
func (r *repo) UpdateStatusIf(ctx context.Context, tx *sql.Tx, id string, from, to model.ItemStatus) (bool, error) {
	const q = `
		UPDATE items
		SET status = $3
		WHERE id = $1
		AND status = $2`
	res, err := tx.ExecContext(ctx, q, id, from, to)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id string, to model.ItemStatus) error {
	const q = `
		UPDATE items
		SET status = $2
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, to)
	return err
}

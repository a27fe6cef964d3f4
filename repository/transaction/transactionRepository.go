// repository/transaction/repo.go
package transaction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kawinmuthukumar/BackendLending/model"
)

// UserFeedRow is a transaction joined with item and party summaries for
// the per-user listing.
type UserFeedRow struct {
	TransactionID string                  `json:"transaction_id"`
	ItemID        string                  `json:"item_id"`
	ItemName      string                  `json:"item_name"`
	Status        model.TransactionStatus `json:"status"`
	StartDate     time.Time               `json:"start_date"`
	BorrowDate    *time.Time              `json:"borrow_date,omitempty"`
	BorrowerID    string                  `json:"borrower_id"`
	BorrowerName  string                  `json:"borrower_name"`
	LenderID      string                  `json:"lender_id"`
	LenderName    string                  `json:"lender_name"`
}

type Repo interface {
	// CreateIfNoActiveClaim inserts t only when no PENDING/APPROVED
	// transaction exists for the item. Returns false when the claim is
	// already taken.
	CreateIfNoActiveClaim(ctx context.Context, tx *sql.Tx, t *model.Transaction) (bool, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Transaction, error)
	FindActiveForItemForUpdate(ctx context.Context, tx *sql.Tx, itemID string) (*model.Transaction, error)

	// UpdateStatusIf transitions id from the expected status; zero rows
	// affected means the transition already happened elsewhere.
	UpdateStatusIf(ctx context.Context, tx *sql.Tx, id string, from, to model.TransactionStatus, borrowDate *time.Time) (bool, error)

	// CancelOtherActive cancels every remaining active transaction for
	// the item except keepID.
	CancelOtherActive(ctx context.Context, tx *sql.Tx, itemID, keepID string) (int64, error)

	List(ctx context.Context) ([]model.Transaction, error)
	ListForUser(ctx context.Context, userID string) ([]UserFeedRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const txColumns = `id, item_id, lender_id, borrower_id, status, start_date, borrow_date, end_date`

func (r *repo) CreateIfNoActiveClaim(ctx context.Context, tx *sql.Tx, t *model.Transaction) (bool, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	// The WHERE NOT EXISTS guard handles the common path; the partial
	// unique index transactions_item_active_uniq catches the racer that
	// slips past it. Both outcomes read as "claim taken".
	const q = `
		INSERT INTO transactions (id, item_id, lender_id, borrower_id, status, start_date)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE NOT EXISTS (
			SELECT 1 FROM transactions
			WHERE item_id = $2
			AND status IN ('PENDING','APPROVED')
		)`
	res, err := tx.ExecContext(ctx, q, t.ID, t.ItemID, t.LenderID, t.BorrowerID, t.Status, t.StartDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return false, nil
		}
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Transaction, error) {
	const q = `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE id = $1
		FOR UPDATE`
	return scanOne(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) FindActiveForItemForUpdate(ctx context.Context, tx *sql.Tx, itemID string) (*model.Transaction, error) {
	const q = `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE item_id = $1
		AND status IN ('PENDING','APPROVED')
		ORDER BY start_date
		LIMIT 1
		FOR UPDATE`
	return scanOne(tx.QueryRowContext(ctx, q, itemID))
}

func (r *repo) UpdateStatusIf(ctx context.Context, tx *sql.Tx, id string, from, to model.TransactionStatus, borrowDate *time.Time) (bool, error) {
	const q = `
		UPDATE transactions
		SET status = $3,
			borrow_date = COALESCE($4, borrow_date)
		WHERE id = $1
		AND status = $2`
	res, err := tx.ExecContext(ctx, q, id, from, to, borrowDate)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) CancelOtherActive(ctx context.Context, tx *sql.Tx, itemID, keepID string) (int64, error) {
	const q = `
		UPDATE transactions
		SET status = 'CANCELLED'
		WHERE item_id = $1
		AND id <> $2
		AND status IN ('PENDING','APPROVED')`
	res, err := tx.ExecContext(ctx, q, itemID, keepID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) List(ctx context.Context) ([]model.Transaction, error) {
	const q = `
		SELECT ` + txColumns + `
		FROM transactions
		ORDER BY start_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.ItemID, &t.LenderID, &t.BorrowerID, &t.Status, &t.StartDate, &t.BorrowDate, &t.EndDate); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repo) ListForUser(ctx context.Context, userID string) ([]UserFeedRow, error) {
	const q = `
		SELECT
			t.id          AS transaction_id,
			t.item_id     AS item_id,
			i.name        AS item_name,
			t.status      AS status,
			t.start_date  AS start_date,
			t.borrow_date AS borrow_date,
			t.borrower_id AS borrower_id,
			b.name        AS borrower_name,
			t.lender_id   AS lender_id,
			l.name        AS lender_name
		FROM transactions t
		JOIN items i ON i.id = t.item_id
		JOIN users b ON b.id = t.borrower_id
		JOIN users l ON l.id = t.lender_id
		WHERE (t.borrower_id = $1 OR t.lender_id = $1)
		AND t.status IN ('PENDING','APPROVED')
		ORDER BY t.start_date DESC, t.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserFeedRow
	for rows.Next() {
		var f UserFeedRow
		if err := rows.Scan(
			&f.TransactionID, &f.ItemID, &f.ItemName, &f.Status,
			&f.StartDate, &f.BorrowDate,
			&f.BorrowerID, &f.BorrowerName, &f.LenderID, &f.LenderName,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanOne(row *sql.Row) (*model.Transaction, error) {
	t := &model.Transaction{}
	err := row.Scan(&t.ID, &t.ItemID, &t.LenderID, &t.BorrowerID, &t.Status, &t.StartDate, &t.BorrowDate, &t.EndDate)
	if err != nil {
		return nil, err
	}
	return t, nil
}

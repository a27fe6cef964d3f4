package borrow

import (
	"context"
	"database/sql"
	"errors"
	"time"

	itemrepo "github.com/kawinmuthukumar/BackendLending/repository/item"
	txrepo "github.com/kawinmuthukumar/BackendLending/repository/transaction"

	"github.com/kawinmuthukumar/BackendLending/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrItemNotFound      ErrCode = "ITEM_NOT_FOUND"
	ErrTxNotFound        ErrCode = "TRANSACTION_NOT_FOUND"
	ErrSelfBorrow        ErrCode = "SELF_BORROW"
	ErrActiveClaimExists ErrCode = "ACTIVE_CLAIM_EXISTS"
	ErrNotLender         ErrCode = "NOT_LENDER"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrInvalidStatus     ErrCode = "INVALID_STATUS"
	ErrNoActiveTx        ErrCode = "NO_ACTIVE_TRANSACTION"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Cancelled is the cancel/return result: the primary cancelled
// transaction and the item it frees.
type Cancelled struct {
	Transaction *model.Transaction `json:"transaction"`
	Item        *model.Item        `json:"item"`
}

type UserFeedRow = txrepo.UserFeedRow

type ItemRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Item, error)
	UpdateStatusIf(ctx context.Context, tx *sql.Tx, id string, from, to model.ItemStatus) (bool, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id string, to model.ItemStatus) error
}

type TxRepo interface {
	CreateIfNoActiveClaim(ctx context.Context, tx *sql.Tx, t *model.Transaction) (bool, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Transaction, error)
	FindActiveForItemForUpdate(ctx context.Context, tx *sql.Tx, itemID string) (*model.Transaction, error)
	UpdateStatusIf(ctx context.Context, tx *sql.Tx, id string, from, to model.TransactionStatus, borrowDate *time.Time) (bool, error)
	CancelOtherActive(ctx context.Context, tx *sql.Tx, itemID, keepID string) (int64, error)
	List(ctx context.Context) ([]model.Transaction, error)
	ListForUser(ctx context.Context, userID string) ([]UserFeedRow, error)
}

type Service interface {
	// RequestBorrow creates a PENDING claim on the item. The item stays
	// AVAILABLE until the lender approves.
	RequestBorrow(ctx context.Context, itemID, borrowerID string) (*model.Transaction, error)

	// DecideRequest lets the lender approve or reject a pending request.
	// Approval is the only path that marks the item BORROWED.
	DecideRequest(ctx context.Context, txID, deciderID string, decision model.TransactionStatus) (*model.Transaction, error)

	// CancelOrReturn withdraws a pending request or returns a borrowed
	// item; the caller must be a party to the active transaction.
	CancelOrReturn(ctx context.Context, itemID, callerID string) (*Cancelled, error)

	List(ctx context.Context) ([]model.Transaction, error)
	ListForUser(ctx context.Context, userID string) ([]UserFeedRow, error)
}

// ----- Service implementation -----

type service struct {
	db *sql.DB
	ir ItemRepo
	tr TxRepo
}

func New(db *sql.DB, ir itemrepo.Repo, tr txrepo.Repo) Service {
	return &service{db: db, ir: ir, tr: tr}
}

// NewWithRepos wires narrow repo interfaces directly; used by tests.
func NewWithRepos(db *sql.DB, ir ItemRepo, tr TxRepo) Service {
	return &service{db: db, ir: ir, tr: tr}
}

func (s *service) RequestBorrow(ctx context.Context, itemID, borrowerID string) (t *model.Transaction, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Row lock on the item serializes competing requests; the partial
	// unique index backs it up at the storage level.
	it, err := s.ir.GetForUpdate(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrItemNotFound)
		}
		return nil, err
	}
	if it.OwnerID == borrowerID {
		return nil, makeErr(ErrSelfBorrow)
	}

	t = &model.Transaction{
		ItemID:     itemID,
		LenderID:   it.OwnerID,
		BorrowerID: borrowerID,
		Status:     model.TxPending,
		StartDate:  time.Now().UTC(),
	}
	ok, err := s.tr.CreateIfNoActiveClaim(ctx, tx, t)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrActiveClaimExists)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) DecideRequest(ctx context.Context, txID, deciderID string, decision model.TransactionStatus) (t *model.Transaction, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	t, err = s.tr.GetForUpdate(ctx, tx, txID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrTxNotFound)
		}
		return nil, err
	}
	if t.Status != model.TxPending {
		return nil, makeErr(ErrInvalidTransition)
	}
	if !CanDecide(deciderID, t) {
		return nil, makeErr(ErrNotLender)
	}
	if decision != model.TxApproved && decision != model.TxRejected {
		return nil, makeErr(ErrInvalidStatus)
	}

	var borrowDate *time.Time
	if decision == model.TxApproved {
		now := time.Now().UTC()
		borrowDate = &now
	}

	ok, err := s.tr.UpdateStatusIf(ctx, tx, t.ID, model.TxPending, decision, borrowDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrInvalidTransition)
	}

	if decision == model.TxApproved {
		ok, err = s.ir.UpdateStatusIf(ctx, tx, t.ItemID, model.ItemAvailable, model.ItemBorrowed)
		if err != nil {
			return nil, err
		}
		if !ok {
			err = errors.New("item not available on approval")
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	t.Status = decision
	t.BorrowDate = borrowDate
	return t, nil
}

func (s *service) CancelOrReturn(ctx context.Context, itemID, callerID string) (out *Cancelled, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	t, err := s.tr.FindActiveForItemForUpdate(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNoActiveTx)
		}
		return nil, err
	}
	// A non-party sees the same result as no transaction at all.
	if !CanCancel(callerID, t) {
		return nil, makeErr(ErrNoActiveTx)
	}

	ok, err := s.tr.UpdateStatusIf(ctx, tx, t.ID, t.Status, model.TxCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNoActiveTx)
	}

	// Defensive sweep: any duplicate active claim goes down with the
	// primary one, inside the same transaction.
	if _, err = s.tr.CancelOtherActive(ctx, tx, itemID, t.ID); err != nil {
		return nil, err
	}

	if err = s.ir.SetStatus(ctx, tx, itemID, model.ItemAvailable); err != nil {
		return nil, err
	}

	it, err := s.ir.GetForUpdate(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	t.Status = model.TxCancelled
	return &Cancelled{Transaction: t, Item: it}, nil
}

func (s *service) List(ctx context.Context) ([]model.Transaction, error) {
	return s.tr.List(ctx)
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]UserFeedRow, error) {
	return s.tr.ListForUser(ctx, userID)
}

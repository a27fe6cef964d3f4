package item

import (
	"context"
	"database/sql"
	"errors"

	itemrepo "github.com/kawinmuthukumar/BackendLending/repository/item"

	"github.com/kawinmuthukumar/BackendLending/model"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "ITEM_NOT_FOUND"
	ErrNotOwner ErrCode = "NOT_OWNER"
	ErrBadInput ErrCode = "BAD_INPUT"
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

type Repo interface {
	Create(ctx context.Context, it *model.Item) error
	Get(ctx context.Context, id string) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
	UpdateDetails(ctx context.Context, id, name, description string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, ownerID, name, description string) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
	Detail(ctx context.Context, id string) (*model.Item, error)

	// Update edits name/description only; item availability belongs to
	// the borrow coordinator.
	Update(ctx context.Context, callerID, id, name, description string) (*model.Item, error)
}

type service struct{ r Repo }

func New(r itemrepo.Repo) Service { return &service{r: r} }

// NewWithRepo wires the narrow repo interface directly; used by tests.
func NewWithRepo(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, ownerID, name, description string) (*model.Item, error) {
	if name == "" || ownerID == "" {
		return nil, makeErr(ErrBadInput)
	}
	it := &model.Item{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Status:      model.ItemAvailable,
	}
	if err := s.r.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) List(ctx context.Context) ([]model.Item, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, callerID, id, name, description string) (*model.Item, error) {
	if name == "" {
		return nil, makeErr(ErrBadInput)
	}
	it, err := s.r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if it.OwnerID != callerID {
		return nil, makeErr(ErrNotOwner)
	}
	if _, err := s.r.UpdateDetails(ctx, id, name, description); err != nil {
		return nil, err
	}
	it.Name = name
	it.Description = description
	return it, nil
}

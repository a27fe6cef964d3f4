package transaction

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/kawinmuthukumar/BackendLending/model"
	bs "github.com/kawinmuthukumar/BackendLending/service/borrow"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/transactions
func (h *Controller) Create(c echo.Context) error {
	var req CreateTransactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	t, err := h.Svc.RequestBorrow(c.Request().Context(), req.ItemID, req.BorrowerID)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrItemNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		case bs.ErrSelfBorrow:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot borrow your own item"})
		case bs.ErrActiveClaimExists:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "item already has an active transaction"})
		default:
			h.Log.Error("transaction create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": t})
}

// PUT /v1/transactions/:id
func (h *Controller) Decide(c echo.Context) error {
	var req DecideTransactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	decision := model.TransactionStatus(strings.ToUpper(req.Status))
	t, err := h.Svc.DecideRequest(c.Request().Context(), c.Param("id"), req.UserID, decision)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrTxNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "transaction not found"})
		case bs.ErrNotLender:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "only the lender can decide"})
		case bs.ErrInvalidTransition:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "transaction is not pending"})
		case bs.ErrInvalidStatus:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "status must be APPROVED or REJECTED"})
		default:
			h.Log.Error("transaction decide", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": t})
}

// POST /v1/transactions/cancel
func (h *Controller) Cancel(c echo.Context) error {
	var req CancelTransactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.CancelOrReturn(c.Request().Context(), req.ItemID, req.BorrowerID)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrNoActiveTx:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no active transaction for this item"})
		default:
			h.Log.Error("transaction cancel", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"transaction": out.Transaction,
		"item":        out.Item,
	})
}

// GET /v1/transactions
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("transaction list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/transactions/user/:userId
func (h *Controller) ForUser(c echo.Context) error {
	rows, err := h.Svc.ListForUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		h.Log.Error("transaction feed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

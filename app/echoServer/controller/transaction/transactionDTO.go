package transaction

type CreateTransactionReq struct {
	ItemID     string `json:"item_id" validate:"required"`
	BorrowerID string `json:"borrower_id" validate:"required"`
}

type DecideTransactionReq struct {
	Status string `json:"status" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

type CancelTransactionReq struct {
	ItemID     string `json:"item_id" validate:"required"`
	BorrowerID string `json:"borrower_id" validate:"required"`
}

// model/transaction.go
package model

import "time"

type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxApproved  TransactionStatus = "APPROVED"
	TxRejected  TransactionStatus = "REJECTED"
	TxCancelled TransactionStatus = "CANCELLED"
)

// Active reports whether a status still holds a claim on the item.
// REJECTED and CANCELLED are terminal.
func (s TransactionStatus) Active() bool {
	return s == TxPending || s == TxApproved
}

type Transaction struct {
	ID         string            `json:"id"`
	ItemID     string            `json:"item_id"`
	LenderID   string            `json:"lender_id"`
	BorrowerID string            `json:"borrower_id"`
	Status     TransactionStatus `json:"status"`
	StartDate  time.Time         `json:"start_date"`
	BorrowDate *time.Time        `json:"borrow_date,omitempty"`
	EndDate    *time.Time        `json:"end_date,omitempty"`
}

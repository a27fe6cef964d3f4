package borrow

import "github.com/kawinmuthukumar/BackendLending/model"

// CanDecide reports whether userID may approve or reject t.
func CanDecide(userID string, t *model.Transaction) bool {
	return userID == t.LenderID
}

// CanCancel reports whether userID may cancel or return t. Either party
// qualifies: the borrower withdrawing or returning, or the lender taking
// the item back.
func CanCancel(userID string, t *model.Transaction) bool {
	return userID == t.BorrowerID || userID == t.LenderID
}

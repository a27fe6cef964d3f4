// model/item.go
package model

import "time"

type ItemStatus string

const (
	ItemAvailable ItemStatus = "AVAILABLE"
	ItemBorrowed  ItemStatus = "BORROWED"
)

// Item status is owned by the borrow coordinator; the item endpoints
// only ever touch name and description.
type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerID     string     `json:"owner_id"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

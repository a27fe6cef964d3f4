package item

type CreateItemReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateItemReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

package dto

type InventoryItemRequest struct {
	Name       string                 `json:"name" validate:"required,max=255"`
	Quantity   *int                   `json:"quantity" validate:"required,gte=0"`
	Tags       []string               `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	Attributes map[string]interface{} `json:"attributes"`
}

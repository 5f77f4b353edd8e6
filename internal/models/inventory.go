package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// InventoryItem - позиция прототипа склада (PostgreSQL).
type InventoryItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:255;not null;index" json:"name"`
	Quantity   int            `gorm:"not null;default:0" json:"quantity"`
	Tags       pq.StringArray `gorm:"type:text[]" json:"tags"`
	Attributes datatypes.JSON `gorm:"type:jsonb" json:"attributes,omitempty" swaggertype:"object"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

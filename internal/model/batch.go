package model

import "github.com/google/uuid"

// InventoryBatch is one received lot of stock for a product. CreatedAt doubles
// as the receipt date and drives FIFO consumption order.
//
// Quantity <= InitialQuantity at all times; both only move together on a
// stock-add, and Quantity alone decreases on stock-remove or order allocation.
type InventoryBatch struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `json:"product,omitempty" validate:"-"`

	BatchNo         string `gorm:"type:varchar(50);not null" json:"batch_no" validate:"required"`
	InitialQuantity int    `gorm:"not null" json:"initial_quantity" validate:"required,gt=0"`
	Quantity        int    `gorm:"not null" json:"quantity"`
	MinThreshold    int    `gorm:"default:0" json:"min_threshold" validate:"gte=0"`
}

// TableName specifies the table name for GORM
func (InventoryBatch) TableName() string {
	return "inventory_batches"
}

package model

// Product is a seed variety sold by the business.
// CostPrice/SellPrice are whole currency units (VND has no sub-unit).
type Product struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit        string `gorm:"type:varchar(20)" json:"unit"` // e.g. kg, bao
	CostPrice   int64  `gorm:"default:0" json:"cost_price" validate:"gte=0"`
	SellPrice   int64  `gorm:"default:0" json:"sell_price" validate:"gte=0"`
	Description string `gorm:"type:text" json:"description"`

	// Relations
	Batches []InventoryBatch `json:"batches,omitempty" validate:"-"`
}

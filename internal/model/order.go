package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusPacking    OrderStatus = "packing"
	StatusShipped    OrderStatus = "shipped"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// AllStatuses in fulfillment order, cancelled last.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusPacking,
	StatusShipped,
	StatusCompleted,
	StatusCancelled,
}

// nextStage is the strict fulfillment chain.
var nextStage = map[OrderStatus]OrderStatus{
	StatusPending:    StatusProcessing,
	StatusProcessing: StatusPacking,
	StatusPacking:    StatusShipped,
	StatusShipped:    StatusCompleted,
}

func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed in strict mode.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo implements the strict state machine: orders advance one
// fulfillment stage at a time, and can be cancelled from any non-terminal
// state. Permissive mode bypasses this check entirely.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return nextStage[s] == next
}

type Order struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	Customer   *Customer `json:"customer,omitempty" validate:"-"`

	OrderDate time.Time   `gorm:"not null" json:"order_date"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	Items []OrderItem `json:"items,omitempty" validate:"-"`

	TotalAmount int64  `gorm:"not null" json:"total_amount"`
	ShippingFee int64  `gorm:"default:0" json:"shipping_fee"`
	Discount    int64  `gorm:"default:0" json:"discount"`
	Notes       string `gorm:"type:text" json:"notes"`
}

// OrderItem is one product line within an order. UnitPrice is a snapshot of
// the price at order time and is never re-derived. BatchID records the first
// batch the line was filled from; a line spanning several batches keeps only
// that first one for traceability.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`

	BatchID *uuid.UUID      `gorm:"type:uuid;index" json:"batch_id,omitempty"`
	Batch   *InventoryBatch `json:"batch,omitempty"`

	Quantity  int   `gorm:"not null" json:"quantity"`
	UnitPrice int64 `gorm:"not null" json:"unit_price"`
}

// Subtotal is Quantity x UnitPrice.
func (i OrderItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

package service

import (
	"fmt"

	"go-seedstock/internal/model"

	"github.com/google/uuid"
)

// InsufficientStockError is raised when a product's ledger cannot cover a
// requested quantity. It aborts order placement and rolls back the whole
// transaction.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// BatchConsumption is one pending decrement produced by the allocator.
type BatchConsumption struct {
	BatchID     uuid.UUID
	Consumed    int
	NewQuantity int
}

// Allocation is the result of filling one order line from the stock ledger.
type Allocation struct {
	Updates []BatchConsumption
	// FirstBatchID is the batch of record for the order item. The line may
	// straddle several batches; only the first touched is remembered.
	FirstBatchID *uuid.UUID
}

// allocateFIFO walks the ledger oldest batch first and consumes quantity until
// the request is satisfied. The ledger must already be in FIFO order (see
// BatchRepository.FindAvailableByProduct). On insufficient stock no updates
// are returned, so nothing is applied for the failing line.
func allocateFIFO(productName string, ledger []model.InventoryBatch, requested int) (*Allocation, error) {
	remaining := requested
	alloc := &Allocation{}

	for _, batch := range ledger {
		if remaining <= 0 {
			break
		}
		if batch.Quantity <= 0 {
			continue
		}

		consumed := remaining
		if batch.Quantity < consumed {
			consumed = batch.Quantity
		}

		alloc.Updates = append(alloc.Updates, BatchConsumption{
			BatchID:     batch.ID,
			Consumed:    consumed,
			NewQuantity: batch.Quantity - consumed,
		})
		remaining -= consumed

		if alloc.FirstBatchID == nil {
			id := batch.ID
			alloc.FirstBatchID = &id
		}
	}

	if remaining > 0 {
		return nil, &InsufficientStockError{
			ProductName: productName,
			Requested:   requested,
			Available:   requested - remaining,
		}
	}

	return alloc, nil
}

// unitPriceFor resolves the snapshot price for an order line: an explicit
// positive override wins, otherwise the product's current sell price.
func unitPriceFor(override int64, product *model.Product) int64 {
	if override > 0 {
		return override
	}
	return product.SellPrice
}

type orderLine struct {
	Quantity  int
	UnitPrice int64
}

// computeOrderTotal sums the line subtotals, adds the shipping fee, subtracts
// the discount and clamps at zero. Never negative.
func computeOrderTotal(lines []orderLine, shippingFee, discount int64) int64 {
	var total int64
	for _, line := range lines {
		total += int64(line.Quantity) * line.UnitPrice
	}
	total += shippingFee
	total -= discount
	if total < 0 {
		total = 0
	}
	return total
}

// applyStockAdd raises quantity and initial quantity in lockstep, the only
// operation allowed to grow a batch after creation.
func applyStockAdd(batch *model.InventoryBatch, qty int) error {
	if qty <= 0 {
		return requestErrorf("quantity to add must be greater than 0")
	}
	batch.Quantity += qty
	batch.InitialQuantity += qty
	return nil
}

// applyStockRemove lowers only the current quantity, never below zero.
func applyStockRemove(batch *model.InventoryBatch, qty int) error {
	if qty <= 0 {
		return requestErrorf("quantity to remove must be greater than 0")
	}
	if batch.Quantity < qty {
		return requestErrorf("not enough stock in batch %s to remove %d", batch.BatchNo, qty)
	}
	batch.Quantity -= qty
	return nil
}

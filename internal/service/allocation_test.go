package service

import (
	"testing"
	"time"

	"go-seedstock/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerBatch builds a batch with a receipt day offset; the ledger passed to
// the allocator is always FIFO-sorted, mirroring FindAvailableByProduct.
func ledgerBatch(no string, qty int, day int) model.InventoryBatch {
	batch := model.InventoryBatch{
		BatchNo:         no,
		InitialQuantity: qty,
		Quantity:        qty,
	}
	batch.ID = uuid.New()
	batch.CreatedAt = time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
	return batch
}

func TestAllocateFIFO_ConsumesOldestFirst(t *testing.T) {
	b1 := ledgerBatch("L001", 10, 1)
	b2 := ledgerBatch("L002", 5, 2)

	alloc, err := allocateFIFO("Jasmine 85", []model.InventoryBatch{b1, b2}, 12)
	require.NoError(t, err)

	require.Len(t, alloc.Updates, 2)
	assert.Equal(t, b1.ID, alloc.Updates[0].BatchID)
	assert.Equal(t, 10, alloc.Updates[0].Consumed)
	assert.Equal(t, 0, alloc.Updates[0].NewQuantity)
	assert.Equal(t, b2.ID, alloc.Updates[1].BatchID)
	assert.Equal(t, 2, alloc.Updates[1].Consumed)
	assert.Equal(t, 3, alloc.Updates[1].NewQuantity)

	// Batch of record is the first batch touched
	require.NotNil(t, alloc.FirstBatchID)
	assert.Equal(t, b1.ID, *alloc.FirstBatchID)
}

func TestAllocateFIFO_SecondBatchUntouchedUntilFirstExhausted(t *testing.T) {
	b1 := ledgerBatch("L001", 10, 1)
	b2 := ledgerBatch("L002", 5, 2)

	alloc, err := allocateFIFO("Jasmine 85", []model.InventoryBatch{b1, b2}, 7)
	require.NoError(t, err)

	require.Len(t, alloc.Updates, 1)
	assert.Equal(t, b1.ID, alloc.Updates[0].BatchID)
	assert.Equal(t, 3, alloc.Updates[0].NewQuantity)
}

func TestAllocateFIFO_ConsumedSumsToRequested(t *testing.T) {
	ledger := []model.InventoryBatch{
		ledgerBatch("L001", 4, 1),
		ledgerBatch("L002", 4, 2),
		ledgerBatch("L003", 4, 3),
	}

	for _, requested := range []int{1, 4, 5, 8, 12} {
		alloc, err := allocateFIFO("OM 5451", ledger, requested)
		require.NoError(t, err)

		consumed := 0
		for _, update := range alloc.Updates {
			consumed += update.Consumed
			assert.GreaterOrEqual(t, update.NewQuantity, 0, "no batch may go negative")
		}
		assert.Equal(t, requested, consumed)
	}
}

func TestAllocateFIFO_InsufficientStock(t *testing.T) {
	b1 := ledgerBatch("L001", 10, 1)
	b2 := ledgerBatch("L002", 5, 2)

	alloc, err := allocateFIFO("Jasmine 85", []model.InventoryBatch{b1, b2}, 20)
	require.Error(t, err)
	assert.Nil(t, alloc, "no updates may be applied on failure")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Jasmine 85", stockErr.ProductName)
	assert.Equal(t, 20, stockErr.Requested)
	assert.Equal(t, 15, stockErr.Available)
	assert.Equal(t, "insufficient stock for Jasmine 85: requested 20, available 15", err.Error())
}

func TestAllocateFIFO_EmptyLedger(t *testing.T) {
	alloc, err := allocateFIFO("ST 25", nil, 1)
	require.Error(t, err)
	assert.Nil(t, alloc)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
}

func TestUnitPriceFor(t *testing.T) {
	product := &model.Product{SellPrice: 50000}

	assert.Equal(t, int64(60000), unitPriceFor(60000, product), "positive override wins")
	assert.Equal(t, int64(50000), unitPriceFor(0, product), "zero falls back to sell price")
	assert.Equal(t, int64(50000), unitPriceFor(-1, product), "negative falls back to sell price")
}

func TestComputeOrderTotal(t *testing.T) {
	tests := []struct {
		name     string
		lines    []orderLine
		shipping int64
		discount int64
		expected int64
	}{
		{
			name:     "single line with shipping and discount",
			lines:    []orderLine{{Quantity: 3, UnitPrice: 50000}},
			shipping: 10000,
			discount: 5000,
			expected: 155000,
		},
		{
			name:     "multiple lines",
			lines:    []orderLine{{Quantity: 2, UnitPrice: 30000}, {Quantity: 1, UnitPrice: 45000}},
			expected: 105000,
		},
		{
			name:     "discount exceeding subtotal clamps to zero",
			lines:    []orderLine{{Quantity: 1, UnitPrice: 10000}},
			discount: 999999,
			expected: 0,
		},
		{
			name:     "no lines, shipping only",
			shipping: 20000,
			expected: 20000,
		},
		{
			name:     "zero everything",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, computeOrderTotal(tt.lines, tt.shipping, tt.discount))
		})
	}
}

func TestApplyStockAdd(t *testing.T) {
	batch := &model.InventoryBatch{BatchNo: "L001", InitialQuantity: 10, Quantity: 6}

	require.NoError(t, applyStockAdd(batch, 4))
	assert.Equal(t, 10, batch.Quantity)
	assert.Equal(t, 14, batch.InitialQuantity, "both quantities move in lockstep")

	assert.Error(t, applyStockAdd(batch, 0))
	assert.Error(t, applyStockAdd(batch, -5))
	assert.Equal(t, 10, batch.Quantity, "rejected add leaves the batch unchanged")
}

func TestApplyStockRemove(t *testing.T) {
	batch := &model.InventoryBatch{BatchNo: "L001", InitialQuantity: 10, Quantity: 6}

	require.NoError(t, applyStockRemove(batch, 4))
	assert.Equal(t, 2, batch.Quantity)
	assert.Equal(t, 10, batch.InitialQuantity, "initial quantity never decreases")

	err := applyStockRemove(batch, 3)
	require.Error(t, err, "removing below zero is rejected")
	assert.Equal(t, 2, batch.Quantity)

	assert.Error(t, applyStockRemove(batch, 0))
	assert.Error(t, applyStockRemove(batch, -1))
}

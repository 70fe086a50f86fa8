package repository

import (
	"go-seedstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRepository interface {
	Create(batch *model.InventoryBatch) error
	FindAll() ([]model.InventoryBatch, error)
	FindByID(id uuid.UUID) (*model.InventoryBatch, error)
	// FindByIDForUpdate locks the batch row for the duration of tx.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.InventoryBatch, error)
	// FindAvailableByProduct returns the product's stock ledger: batches with
	// positive quantity, oldest receipt first (FIFO), locked within tx.
	FindAvailableByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.InventoryBatch, error)
	CountByProduct(productID uuid.UUID) (int64, error)
	Update(batch *model.InventoryBatch) error
	// UpdateQuantity runs inside tx so allocation decrements commit atomically.
	UpdateQuantity(tx *gorm.DB, id uuid.UUID, quantity int) error
	UpdateQuantities(tx *gorm.DB, id uuid.UUID, quantity, initialQuantity int) error
	Delete(id uuid.UUID) error
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

func (r *batchRepo) Create(batch *model.InventoryBatch) error {
	return r.db.Create(batch).Error
}

func (r *batchRepo) FindAll() ([]model.InventoryBatch, error) {
	var batches []model.InventoryBatch
	err := r.db.Preload("Product").Order("created_at DESC").Find(&batches).Error
	return batches, err
}

func (r *batchRepo) FindByID(id uuid.UUID) (*model.InventoryBatch, error) {
	var batch model.InventoryBatch
	err := r.db.Preload("Product").First(&batch, "id = ?", id).Error
	return &batch, err
}

// forUpdate takes pessimistic row locks for the duration of tx, so two
// concurrent placements against the same batch serialize on the locked rows.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *batchRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.InventoryBatch, error) {
	var batch model.InventoryBatch
	err := forUpdate(tx).First(&batch, "id = ?", id).Error
	return &batch, err
}

func (r *batchRepo) FindAvailableByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.InventoryBatch, error) {
	var batches []model.InventoryBatch
	err := forUpdate(tx).
		Where("product_id = ? AND quantity > 0", productID).
		Order("created_at ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) CountByProduct(productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.InventoryBatch{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *batchRepo) Update(batch *model.InventoryBatch) error {
	return r.db.Save(batch).Error
}

func (r *batchRepo) UpdateQuantity(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.InventoryBatch{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *batchRepo) UpdateQuantities(tx *gorm.DB, id uuid.UUID, quantity, initialQuantity int) error {
	return tx.Model(&model.InventoryBatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":         quantity,
			"initial_quantity": initialQuantity,
		}).Error
}

func (r *batchRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.InventoryBatch{}, "id = ?", id).Error
}

package service

import (
	"errors"

	"go-seedstock/internal/model"
	"go-seedstock/internal/repository"
	"go-seedstock/internal/ws"
	"go-seedstock/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referential-integrity guards, checked before any delete.
var (
	ErrProductInUse  = errors.New("product is referenced by inventory batches or order items")
	ErrBatchConsumed = errors.New("batch has outgoing stock movements and cannot be deleted")
	ErrBatchInUse    = errors.New("batch is referenced by order items")
)

func firstValidationError(errs []*validator.FieldError) error {
	firstErr := errs[0]
	return requestErrorf("validation failed: field '%s' failed on tag '%s'", firstErr.Field, firstErr.Tag)
}

// BatchUpdateRequest carries the only batch fields editable after creation.
// Quantity fields move exclusively through stock-add, stock-remove and order
// allocation.
type BatchUpdateRequest struct {
	BatchNo      string `json:"batch_no" validate:"required"`
	MinThreshold int    `json:"min_threshold" validate:"gte=0"`
}

type InventoryService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)

	CreateBatch(req *model.InventoryBatch) error
	UpdateBatch(id uuid.UUID, req *BatchUpdateRequest) (*model.InventoryBatch, error)
	DeleteBatch(id uuid.UUID) error
	GetAllBatches() ([]model.InventoryBatch, error)
	GetBatchByID(id uuid.UUID) (*model.InventoryBatch, error)

	AddStock(id uuid.UUID, qty int) (*model.InventoryBatch, error)
	RemoveStock(id uuid.UUID, qty int) (*model.InventoryBatch, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	orderRepo   repository.OrderRepository
	db          Transactor
	wsHub       *ws.Hub
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	bRepo repository.BatchRepository,
	oRepo repository.OrderRepository,
	db Transactor,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		batchRepo:   bRepo,
		orderRepo:   oRepo,
		db:          db,
		wsHub:       hub,
	}
}

// ---------- Products ----------

func (s *inventoryService) CreateProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return firstValidationError(errs)
	}

	existing, _ := s.productRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return requestErrorf("product code already exists")
	}

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	logger.Info().Str("product_id", req.ID.String()).Str("code", req.Code).Msg("product created")
	go s.wsHub.Publish("product_created", req)
	return nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, requestErrorf("product not found")
	}

	if req.Code != existing.Code {
		dup, _ := s.productRepo.FindByCode(req.Code)
		if dup != nil && dup.ID != uuid.Nil && dup.ID != id {
			return nil, requestErrorf("product code already exists")
		}
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Unit = req.Unit
	existing.CostPrice = req.CostPrice
	existing.SellPrice = req.SellPrice
	existing.Description = req.Description

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	go s.wsHub.Publish("product_updated", existing)
	return existing, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return requestErrorf("product not found")
	}

	batchCount, err := s.batchRepo.CountByProduct(id)
	if err != nil {
		return err
	}
	if batchCount > 0 {
		return ErrProductInUse
	}

	itemCount, err := s.orderRepo.CountItemsByProduct(id)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return ErrProductInUse
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	logger.Info().Str("product_id", id.String()).Msg("product deleted")
	go s.wsHub.Publish("product_deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

// ---------- Batches ----------

func (s *inventoryService) CreateBatch(req *model.InventoryBatch) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return firstValidationError(errs)
	}

	if _, err := s.productRepo.FindByID(req.ProductID); err != nil {
		return requestErrorf("product not found")
	}

	// Current quantity always starts at the initial quantity
	req.Quantity = req.InitialQuantity

	if err := s.batchRepo.Create(req); err != nil {
		return err
	}

	logger.Info().
		Str("batch_id", req.ID.String()).
		Str("batch_no", req.BatchNo).
		Int("quantity", req.Quantity).
		Msg("batch created")
	go s.wsHub.Publish("batch_created", req)
	return nil
}

func (s *inventoryService) UpdateBatch(id uuid.UUID, req *BatchUpdateRequest) (*model.InventoryBatch, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	existing, err := s.batchRepo.FindByID(id)
	if err != nil {
		return nil, requestErrorf("batch not found")
	}

	existing.BatchNo = req.BatchNo
	existing.MinThreshold = req.MinThreshold

	if err := s.batchRepo.Update(existing); err != nil {
		return nil, err
	}

	go s.wsHub.Publish("batch_updated", existing)
	return existing, nil
}

func (s *inventoryService) DeleteBatch(id uuid.UUID) error {
	batch, err := s.batchRepo.FindByID(id)
	if err != nil {
		return requestErrorf("batch not found")
	}

	// Stock already moved out of this batch
	if batch.Quantity < batch.InitialQuantity {
		return ErrBatchConsumed
	}

	itemCount, err := s.orderRepo.CountItemsByBatch(id)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return ErrBatchInUse
	}

	if err := s.batchRepo.Delete(id); err != nil {
		return err
	}

	logger.Info().Str("batch_id", id.String()).Msg("batch deleted")
	go s.wsHub.Publish("batch_deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *inventoryService) GetAllBatches() ([]model.InventoryBatch, error) {
	return s.batchRepo.FindAll()
}

func (s *inventoryService) GetBatchByID(id uuid.UUID) (*model.InventoryBatch, error) {
	return s.batchRepo.FindByID(id)
}

// ---------- Stock movements ----------

func (s *inventoryService) AddStock(id uuid.UUID, qty int) (*model.InventoryBatch, error) {
	if qty <= 0 {
		return nil, requestErrorf("quantity to add must be greater than 0")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		batch, err := s.batchRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return requestErrorf("batch not found")
		}
		if err := applyStockAdd(batch, qty); err != nil {
			return err
		}
		return s.batchRepo.UpdateQuantities(tx, id, batch.Quantity, batch.InitialQuantity)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.batchRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("batch_id", id.String()).Int("added", qty).Int("quantity", updated.Quantity).Msg("stock added")
	go s.wsHub.Publish("stock_added", updated)
	return updated, nil
}

func (s *inventoryService) RemoveStock(id uuid.UUID, qty int) (*model.InventoryBatch, error) {
	if qty <= 0 {
		return nil, requestErrorf("quantity to remove must be greater than 0")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		batch, err := s.batchRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return requestErrorf("batch not found")
		}
		if err := applyStockRemove(batch, qty); err != nil {
			return err
		}
		return s.batchRepo.UpdateQuantity(tx, id, batch.Quantity)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.batchRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("batch_id", id.String()).Int("removed", qty).Int("quantity", updated.Quantity).Msg("stock removed")
	go s.wsHub.Publish("stock_removed", updated)
	return updated, nil
}

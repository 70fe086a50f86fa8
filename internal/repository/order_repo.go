package repository

import (
	"go-seedstock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create and CreateItems take the placing transaction so the order header,
	// its items and the batch decrements commit or roll back as one unit.
	Create(tx *gorm.DB, order *model.Order) error
	CreateItems(tx *gorm.DB, items []model.OrderItem) error
	FindAll() ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	UpdateStatus(id uuid.UUID, status model.OrderStatus) error
	CountByCustomer(customerID uuid.UUID) (int64, error)
	CountItemsByProduct(productID uuid.UUID) (int64, error)
	CountItemsByBatch(batchID uuid.UUID) (int64, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Omit("Items").Create(order).Error
}

func (r *orderRepo) CreateItems(tx *gorm.DB, items []model.OrderItem) error {
	return tx.Create(&items).Error
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Preload("Customer").
		Preload("Items.Product").
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Customer").
		Preload("Items.Product").
		Preload("Items.Batch").
		First(&order, "id = ?", id).Error
	return &order, err
}

func (r *orderRepo) UpdateStatus(id uuid.UUID, status model.OrderStatus) error {
	return r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepo) CountByCustomer(customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

func (r *orderRepo) CountItemsByProduct(productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

func (r *orderRepo) CountItemsByBatch(batchID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.OrderItem{}).Where("batch_id = ?", batchID).Count(&count).Error
	return count, err
}

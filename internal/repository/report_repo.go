package repository

import (
	"time"

	"go-seedstock/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	GetOverviewStats() (*OverviewStats, error)
	GetDailyRevenue(startDate, endDate time.Time) ([]DailyRevenue, error)
	GetSalesByProduct(startDate, endDate time.Time) ([]ProductSales, error)
}

// OverviewStats for the dashboard header cards
type OverviewStats struct {
	TotalProducts   int64 `json:"total_products"`
	LowStockBatches int64 `json:"low_stock_batches"`
	OpenOrders      int64 `json:"open_orders"`
	MonthRevenue    int64 `json:"month_revenue"`
}

// DailyRevenue is one point of the revenue chart
type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

// ProductSales aggregates completed order lines per product
type ProductSales struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	QuantitySold int64  `json:"quantity_sold"`
	Revenue      int64  `json:"revenue"`
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) GetOverviewStats() (*OverviewStats, error) {
	var stats OverviewStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.InventoryBatch{}).
		Where("quantity <= min_threshold").
		Count(&stats.LowStockBatches).Error; err != nil {
		return nil, err
	}

	openStatuses := []model.OrderStatus{model.StatusPending, model.StatusProcessing, model.StatusPacking}
	if err := r.db.Model(&model.Order{}).
		Where("status IN ?", openStatuses).
		Count(&stats.OpenOrders).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := r.db.Model(&model.Order{}).
		Where("status = ? AND order_date >= ?", model.StatusCompleted, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.MonthRevenue).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *reportRepo) GetDailyRevenue(startDate, endDate time.Time) ([]DailyRevenue, error) {
	var results []DailyRevenue

	rows, err := r.db.Model(&model.Order{}).
		Select("DATE(order_date) as date, COALESCE(SUM(total_amount), 0) as revenue").
		Where("status = ? AND order_date BETWEEN ? AND ?", model.StatusCompleted, startDate, endDate).
		Group("DATE(order_date)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyRevenue
		if err := rows.Scan(&data.Date, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *reportRepo) GetSalesByProduct(startDate, endDate time.Time) ([]ProductSales, error) {
	var results []ProductSales

	rows, err := r.db.Model(&model.OrderItem{}).
		Select(`
			order_items.product_id,
			products.name,
			COALESCE(SUM(order_items.quantity), 0) as quantity_sold,
			COALESCE(SUM(order_items.quantity * order_items.unit_price), 0) as revenue
		`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.status = ? AND orders.order_date BETWEEN ? AND ?", model.StatusCompleted, startDate, endDate).
		Group("order_items.product_id, products.name").
		Order("revenue DESC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data ProductSales
		if err := rows.Scan(&data.ProductID, &data.ProductName, &data.QuantitySold, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

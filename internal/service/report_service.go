package service

import (
	"time"

	"go-seedstock/internal/repository"
)

type ReportService interface {
	GetOverviewStats() (*repository.OverviewStats, error)
	GetDailyRevenue(startDate, endDate time.Time) ([]repository.DailyRevenue, error)
	GetSalesByProduct(startDate, endDate time.Time) ([]repository.ProductSales, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) GetOverviewStats() (*repository.OverviewStats, error) {
	return s.reportRepo.GetOverviewStats()
}

func (s *reportService) GetDailyRevenue(startDate, endDate time.Time) ([]repository.DailyRevenue, error) {
	return s.reportRepo.GetDailyRevenue(startDate, endDate)
}

func (s *reportService) GetSalesByProduct(startDate, endDate time.Time) ([]repository.ProductSales, error) {
	return s.reportRepo.GetSalesByProduct(startDate, endDate)
}

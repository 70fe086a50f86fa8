package handler

import (
	"time"

	"go-seedstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// dateRange reads start/end query params (YYYY-MM-DD), defaulting to the last
// 30 days. The end date is inclusive.
func dateRange(c *fiber.Ctx) (time.Time, time.Time) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s := c.Query("start"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			start = parsed
		}
	}
	if e := c.Query("end"); e != "" {
		if parsed, err := time.Parse("2006-01-02", e); err == nil {
			end = parsed.AddDate(0, 0, 1).Add(-time.Second)
		}
	}

	return start, end
}

// GetOverview returns the dashboard header stats
func (h *ReportHandler) GetOverview(c *fiber.Ctx) error {
	stats, err := h.service.GetOverviewStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch overview stats"})
	}
	return c.JSON(stats)
}

// GetDailyRevenue returns revenue of completed orders per day
// Query params: start, end (YYYY-MM-DD, default last 30 days)
func (h *ReportHandler) GetDailyRevenue(c *fiber.Ctx) error {
	start, end := dateRange(c)

	data, err := h.service.GetDailyRevenue(start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch daily revenue"})
	}

	return c.JSON(fiber.Map{
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
		"data":  data,
	})
}

// GetSalesByProduct returns per-product sales over completed orders
// Query params: start, end (YYYY-MM-DD, default last 30 days)
func (h *ReportHandler) GetSalesByProduct(c *fiber.Ctx) error {
	start, end := dateRange(c)

	data, err := h.service.GetSalesByProduct(start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch product sales"})
	}

	return c.JSON(fiber.Map{
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
		"data":  data,
	})
}

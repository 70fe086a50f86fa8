package handler

import (
	"go-seedstock/internal/model"
	"go-seedstock/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BatchHandler struct {
	service service.InventoryService
}

func NewBatchHandler(s service.InventoryService) *BatchHandler {
	return &BatchHandler{service: s}
}

// StockMovementRequest for the add-stock / remove-stock endpoints
type StockMovementRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

func (h *BatchHandler) GetBatches(c *fiber.Ctx) error {
	batches, err := h.service.GetAllBatches()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(batches)
}

func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	batch, err := h.service.GetBatchByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Batch not found"})
	}
	return c.JSON(batch)
}

func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var batch model.InventoryBatch
	if err := c.BodyParser(&batch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateBatch(&batch); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Batch created", "data": batch})
}

func (h *BatchHandler) UpdateBatch(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	var req service.BatchUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateBatch(id, &req)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Batch updated", "data": updated})
}

func (h *BatchHandler) DeleteBatch(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	if err := h.service.DeleteBatch(id); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Batch deleted"})
}

func (h *BatchHandler) AddStock(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	var req StockMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.AddStock(id, req.Quantity)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Stock added", "data": updated})
}

func (h *BatchHandler) RemoveStock(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	var req StockMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.RemoveStock(id, req.Quantity)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Stock removed", "data": updated})
}

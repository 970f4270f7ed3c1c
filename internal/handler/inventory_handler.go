package handler

import (
	"strconv"

	"go-ricemill-api/internal/model"
	"go-ricemill-api/internal/repository"
	"go-ricemill-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetProducts supports ?search=, ?category= and ?lowStock=true filters.
// Soft-deleted products are always excluded.
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		LowStock: c.Query("lowStock") == "true",
	}

	products, err := h.service.GetProducts(filter)
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(&product, getActor(c)); err != nil {
		return fail(c, err, 400)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(id, &product, getActor(c))
	if err != nil {
		return fail(c, err, 400)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id, getActor(c)); err != nil {
		return fail(c, err, 400)
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// VerifyLedger replays a product's transaction ledger and reports whether
// it reproduces the materialized stock level
func (h *InventoryHandler) VerifyLedger(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	check, err := h.service.VerifyLedger(id)
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(check)
}

// GetTransactions supports ?productId=, ?type=, ?startDate=, ?endDate= and
// ?limit= (default 100) filters, newest first.
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Type:      model.TransactionType(c.Query("type")),
		StartDate: parseDate(c.Query("startDate")),
		EndDate:   parseDate(c.Query("endDate")),
	}
	if raw := c.Query("productId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		filter.ProductID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	transactions, err := h.service.GetTransactions(filter)
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(transactions)
}

func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.service.GetTransaction(id)
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(transaction)
}

func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	transaction, err := h.service.RecordTransaction(&req, getActor(c))
	if err != nil {
		return fail(c, err, 400)
	}

	return c.Status(201).JSON(transaction)
}

// DeleteTransaction is the admin-only override; product stock is not
// recomputed (route guarded by RequireRole("admin")).
func (h *InventoryHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.service.DeleteTransaction(id, getActor(c)); err != nil {
		return fail(c, err, 400)
	}

	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

package handler

import (
	"go-ricemill-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Dashboard returns overview statistics over the last 30 days
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	report, err := h.service.Dashboard()
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(report)
}

func (h *ReportHandler) StockValue(c *fiber.Ctx) error {
	report, err := h.service.StockValue()
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Movement(c *fiber.Ctx) error {
	var productID *uuid.UUID
	if raw := c.Query("productId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		productID = &id
	}

	report, err := h.service.Movement(parseDate(c.Query("startDate")), parseDate(c.Query("endDate")), productID)
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(report)
}

// BIAnalytics defaults to the last 90 days when no window is given
func (h *ReportHandler) BIAnalytics(c *fiber.Ctx) error {
	report, err := h.service.BIAnalytics(parseDate(c.Query("startDate")), parseDate(c.Query("endDate")))
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(report)
}

func (h *ReportHandler) ProfitAnalysis(c *fiber.Ctx) error {
	report, err := h.service.ProfitAnalysis(parseDate(c.Query("startDate")), parseDate(c.Query("endDate")))
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(report)
}

package handler

import (
	"strconv"

	"go-ricemill-api/internal/model"
	"go-ricemill-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WithdrawalHandler struct {
	service service.WithdrawalService
}

func NewWithdrawalHandler(s service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{service: s}
}

func (h *WithdrawalHandler) GetWithdrawals(c *fiber.Ctx) error {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	withdrawals, err := h.service.GetAll(limit)
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(withdrawals)
}

func (h *WithdrawalHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(parseDate(c.Query("startDate")), parseDate(c.Query("endDate")))
	if err != nil {
		return fail(c, err, 500)
	}
	return c.JSON(summary)
}

func (h *WithdrawalHandler) CreateWithdrawal(c *fiber.Ctx) error {
	var withdrawal model.CashWithdrawal
	if err := c.BodyParser(&withdrawal); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&withdrawal, getActor(c)); err != nil {
		return fail(c, err, 400)
	}

	return c.Status(201).JSON(withdrawal)
}

func (h *WithdrawalHandler) DeleteWithdrawal(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid withdrawal ID"})
	}

	if err := h.service.Delete(id, getActor(c)); err != nil {
		return fail(c, err, 400)
	}

	return c.JSON(fiber.Map{"message": "Cash withdrawal deleted"})
}

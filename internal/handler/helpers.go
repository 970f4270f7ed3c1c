package handler

import (
	"errors"
	"time"

	"go-ricemill-api/internal/model"
	"go-ricemill-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getActor assembles the acting principal from JWT context (set by RequireAuth)
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{Name: "Unknown"}
	if id, ok := c.Locals("user_id").(uuid.UUID); ok {
		actor.ID = id
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	return actor
}

// fail maps domain errors onto HTTP statuses. Not-found sentinels become
// 404s; anything else from a service is a caller problem (validation,
// insufficient stock, duplicate SKU) and reported as the given fallback.
func fail(c *fiber.Ctx, err error, fallback int) error {
	if errors.Is(err, model.ErrProductNotFound) ||
		errors.Is(err, model.ErrTransactionNotFound) ||
		errors.Is(err, model.ErrWithdrawalNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	if fallback >= 500 {
		return c.Status(fallback).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(fallback).JSON(fiber.Map{"error": err.Error()})
}

// parseDate accepts YYYY-MM-DD or RFC3339 query values
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	return nil
}

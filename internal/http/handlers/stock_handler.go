package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"maisonneuve/internal/services"
	"maisonneuve/internal/validate"
)

type StockHandler struct {
	Stock *services.StockService
}

// Check serves GET /api/v1/availability?productId= for the product page.
func (h *StockHandler) Check(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.Query("productId"))
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing productId",
		})
	}
	if _, ok := validate.ID(productID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid productId",
		})
	}

	avail, err := h.Stock.CheckAvailability(productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(avail)
}

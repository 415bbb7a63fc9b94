package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"maisonneuve/internal/domain"
	applog "maisonneuve/internal/log"
	"maisonneuve/internal/services"
	"maisonneuve/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// Submit handles POST /reviews from the product page. The review always
// lands in pending and stays invisible until an admin approves it.
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}

	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	rating, ok := validate.Rating(c.FormValue("rating"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "rating", "value": c.FormValue("rating")})
		return c.Status(400).SendString("rating must be between 1 and 5")
	}
	comment, ok := validate.Comment(c.FormValue("comment"))
	if !ok {
		return c.Status(400).SendString("comment too long")
	}

	id, err := h.Reviews.Submit(u.ID, u.Email, productID, rating, comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotEligible):
			applog.Security(c, "review.submit.denied", map[string]any{"product": productID, "reason": "not_eligible"})
			return c.Status(403).SendString("You can review a product after an order containing it is delivered.")
		case errors.Is(err, services.ErrAlreadyReviewed):
			return c.Status(409).SendString("You have already reviewed this product.")
		case errors.Is(err, services.ErrBadRating):
			return c.Status(400).SendString("rating must be between 1 and 5")
		}
		applog.Error(c, "review.submit.fail", err, map[string]any{"product": productID})
		return c.Status(500).SendString("could not submit review")
	}

	applog.Audit(c, "review.submit", map[string]any{"review_id": id, "product": productID})
	return c.Redirect("/product/" + productID)
}

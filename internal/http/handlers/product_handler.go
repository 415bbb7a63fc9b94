package handlers

import (
	"github.com/gofiber/fiber/v2"

	"maisonneuve/internal/domain"
	"maisonneuve/internal/log"
	"maisonneuve/internal/services"
	"maisonneuve/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Reviews *services.ReviewService
	Wish    *services.WishlistService
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	d, err := h.Catalog.GetDetail(id)
	if err != nil || d.Product.ID == "" || !d.Product.Active {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}

	// Review form state for the signed-in user.
	canReview, hasReviewed := false, false
	if u, okU := c.Locals("user").(*domain.User); okU && u != nil {
		if v, err := h.Reviews.CanReview(u.ID, u.Email, id); err == nil {
			canReview = v
		}
		if v, err := h.Reviews.HasReviewed(u.ID, id); err == nil {
			hasReviewed = v
		}
	}

	saved := false
	if owner := wishlistOwner(c); owner != "" {
		if v, err := h.Wish.Repo.Has(owner, id); err == nil {
			saved = v
		}
	}

	return render(c, "product", fiber.Map{
		"P":           d.Product,
		"Gallery":     d.Gallery,
		"Reviews":     d.Reviews,
		"Summary":     d.Summary,
		"CanReview":   canReview && !hasReviewed,
		"HasReviewed": hasReviewed,
		"Saved":       saved,
	})
}

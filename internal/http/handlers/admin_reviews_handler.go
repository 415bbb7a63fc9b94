package handlers

import (
	"github.com/gofiber/fiber/v2"

	"maisonneuve/internal/domain"
	applog "maisonneuve/internal/log"
	"maisonneuve/internal/services"
	"maisonneuve/internal/validate"
)

type AdminReviewHandler struct {
	Reviews *services.ReviewService
}

// GET /admin/reviews?filter=pending|approved|rejected|all
func (h *AdminReviewHandler) Queue(c *fiber.Ctx) error {
	filter := c.Query("filter", domain.ReviewPending)
	rows, counts, err := h.Reviews.Queue(filter)
	if err != nil {
		applog.Error(c, "admin.reviews.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load reviews"})
	}
	return render(c, "admin_reviews", fiber.Map{
		"Reviews": rows,
		"Filter":  filter,
		"Counts":  counts,
	})
}

// POST /admin/reviews/:id/status — approve/reject, freely re-toggleable.
func (h *AdminReviewHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	status := c.FormValue("status")
	if !ok || status == "" {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.Reviews.Moderate(id, status); err != nil {
		applog.Error(c, "admin.reviews.update.fail", err, map[string]any{"review_id": id, "status": status})
		return c.Status(400).SendString("could not update review")
	}
	applog.Audit(c, "admin.reviews.update", map[string]any{"review_id": id, "status": status})
	return c.Redirect("/admin/reviews")
}

// POST /admin/reviews/:id/delete — terminal.
func (h *AdminReviewHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Reviews.Delete(id); err != nil {
		applog.Error(c, "admin.reviews.delete.fail", err, map[string]any{"review_id": id})
		return c.Status(400).SendString("could not delete review")
	}
	applog.Audit(c, "admin.reviews.delete", map[string]any{"review_id": id})
	return c.Redirect("/admin/reviews")
}

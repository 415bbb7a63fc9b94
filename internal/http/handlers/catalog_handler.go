package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "maisonneuve/internal/log"
	"maisonneuve/internal/services"
	"maisonneuve/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// Home renders the storefront: newest products first, category chips
// from the distinct categories in the catalog.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	category := c.Query("category")
	if category != "" {
		if _, ok := validate.Q(category); !ok {
			category = ""
		}
	}

	cats, err := h.Catalog.Categories()
	if err != nil {
		applog.Error(c, "catalog.categories.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the catalog"})
	}
	cards, err := h.Catalog.ListCards(category, 1, 24)
	if err != nil {
		applog.Error(c, "catalog.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the catalog"})
	}

	return render(c, "home", fiber.Map{
		"Categories": cats,
		"Category":   category,
		"Products":   cards,
	})
}

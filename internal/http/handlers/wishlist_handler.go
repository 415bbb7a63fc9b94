package handlers

import (
	"github.com/gofiber/fiber/v2"

	"maisonneuve/internal/domain"
	applog "maisonneuve/internal/log"
	"maisonneuve/internal/services"
	"maisonneuve/internal/validate"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

// wishlistOwner keys the saved set: user id when signed in, session id
// otherwise. Signing in therefore switches to the remote set wholesale.
func wishlistOwner(c *fiber.Ctx) string {
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return u.ID
	}
	return ensureSID(c)
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	owner := wishlistOwner(c)
	items, err := h.Wish.List(owner)
	if err != nil {
		applog.Error(c, "wishlist.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your wishlist"})
	}
	return render(c, "wishlist", fiber.Map{"Items": items})
}

// Toggle saves the product or removes it when already saved.
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	owner := wishlistOwner(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	added, err := h.Wish.Toggle(owner, productID)
	if err != nil {
		applog.Error(c, "wishlist.toggle.fail", err, map[string]any{"product": productID})
		return c.Status(500).SendString("could not update wishlist")
	}
	applog.Info(c, "wishlist.toggle", map[string]any{"product": productID, "saved": added})
	if back := c.FormValue("back"); back == "product" {
		return c.Redirect("/product/" + productID)
	}
	return c.Redirect("/wishlist")
}

func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	owner := wishlistOwner(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	if err := h.Wish.Remove(owner, productID); err != nil {
		return c.Status(500).SendString("could not update wishlist")
	}
	return c.Redirect("/wishlist")
}

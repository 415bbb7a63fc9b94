package handlers

import (
	"github.com/gofiber/fiber/v2"

	"maisonneuve/internal/services"
	"maisonneuve/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	if err := h.Cart.Add(sid, productID, qty); err != nil {
		return c.Status(500).SendString("could not add to cart")
	}
	return c.Redirect("/cart")
}

// Update overwrites one line's quantity; qty 0 removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := 0
	if c.FormValue("qty") != "0" {
		qty = validate.Qty(c.FormValue("qty"))
	}
	if err := h.Cart.SetQty(sid, productID, qty); err != nil {
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	if err := h.Cart.Remove(sid, productID); err != nil {
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

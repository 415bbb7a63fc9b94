package handlers

import (
	"github.com/gofiber/fiber/v2"

	"maisonneuve/internal/domain"
	applog "maisonneuve/internal/log"
	"maisonneuve/internal/repos"
)

type AccountHandler struct {
	Orders *repos.OrderRepo
}

// GET /account — profile summary with the customer's latest orders.
func (h *AccountHandler) Page(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	orders, err := h.Orders.ListForUser(u.ID, u.Email)
	if err != nil {
		applog.Error(c, "account.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your account"})
	}
	if len(orders) > 5 {
		orders = orders[:5]
	}
	return render(c, "account", fiber.Map{"Orders": orders})
}

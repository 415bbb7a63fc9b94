package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"maisonneuve/internal/domain"
	applog "maisonneuve/internal/log"
	"maisonneuve/internal/repos"
	"maisonneuve/internal/services"
	"maisonneuve/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Repo  *repos.OrderRepo
	Auth  *services.AuthService
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}

	// Pre-fill contact fields for signed-in customers.
	data := fiber.Map{"Cart": cv}
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		data["PrefillName"] = u.Name
		data["PrefillEmail"] = u.Email
	}
	return render(c, "checkout", data)
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).SendString("name must be 1-60 characters")
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid email")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid phone number")
	}
	address, ok := validate.Address(c.FormValue("address"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid shipping address")
	}

	userID := ""
	if u, okU := c.Locals("user").(*domain.User); okU && u != nil {
		userID = u.ID
	}

	contact := services.Contact{Name: name, Email: email, Phone: phone, Address: address}
	orderID, total, err := h.Order.Place(sid, userID, contact)
	if err != nil {
		var stockErr *services.InsufficientStockError
		if errors.As(err, &stockErr) {
			applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
			cv, _ := h.Cart.View(sid)
			return c.Status(fiber.StatusBadRequest).Render("checkout", fiber.Map{
				"Cart": cv,
				"Err":  "Insufficient stock for " + stockErr.ProductName + ". Only " + strconv.Itoa(stockErr.Have) + " available.",
			})
		}
		if errors.Is(err, services.ErrCartEmpty) {
			return c.Redirect("/cart")
		}
		applog.Error(c, "order.place.fail", err, map[string]any{"sid": sid})
		return c.Status(fiber.StatusBadRequest).SendString("Could not place order. Please review quantities and try again.")
	}

	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "total": total})
	return c.Redirect("/order/" + orderID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	// Ownership: the placing session, the linked user, or an admin.
	sid := c.Cookies("sid")
	var u *domain.User
	if h.Auth != nil && sid != "" {
		if cu, err := h.Auth.CurrentUser(sid); err == nil {
			u = cu
		}
	}
	owner := (sid != "" && sid == o.SessionID) ||
		(u != nil && u.ID != "" && u.ID == o.UserID) ||
		u.IsAdmin()
	if !owner {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the signed-in user, matched by user id or
// the account email (orders placed before sign-up).
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orders not available"})
	}
	orders, err := h.Repo.ListForUser(u.ID, u.Email)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	// Fallback: show session orders placed while signed out this visit.
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"maisonneuve/internal/domain"
	"maisonneuve/internal/repos"
)

var (
	ErrCartEmpty = errors.New("cart empty")
	ErrBadStatus = errors.New("unknown order status")
)

// InsufficientStockError names the offending product so the checkout
// page can tell the customer which line to fix.
type InsufficientStockError struct {
	ProductName string
	Want, Have  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (need %d, have %d)", e.ProductName, e.Want, e.Have)
}

type Contact struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type OrderService struct {
	DB     *sqlx.DB
	Carts  *repos.CartRepo
	Orders *repos.OrderRepo
}

func NewOrderService(db *sqlx.DB, carts *repos.CartRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{DB: db, Carts: carts, Orders: orders}
}

// Place runs the whole checkout in one transaction: per-line conditional
// stock decrements, the order header, its items and the cart clear all
// commit together or not at all. userID may be empty for guest checkout.
func (s *OrderService) Place(sessionID, userID string, contact Contact) (string, float64, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", 0, err
	}

	items, err := s.Carts.Items(cartID)
	if err != nil {
		return "", 0, err
	}
	if len(items) == 0 {
		return "", 0, ErrCartEmpty
	}

	// Pre-check against live stock so the failure names the product.
	for _, it := range items {
		if it.Stock < it.Qty {
			return "", 0, &InsufficientStockError{ProductName: it.Name, Want: it.Qty, Have: it.Stock}
		}
	}

	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Qty)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = tx.Rollback() }()

	// Conditional decrements; a concurrent checkout that drained stock
	// after the pre-check fails here and the whole order rolls back.
	for _, it := range items {
		if err := repos.DecrementStock(tx, it.ProductID, it.Qty); err != nil {
			return "", 0, &InsufficientStockError{ProductName: it.Name, Want: it.Qty, Have: it.Stock}
		}
	}

	orderID := uuid.NewString()
	if err := repos.CreateTx(tx, domain.Order{
		ID:              orderID,
		SessionID:       sessionID,
		UserID:          userID,
		CustomerName:    contact.Name,
		CustomerEmail:   contact.Email,
		CustomerPhone:   contact.Phone,
		ShippingAddress: contact.Address,
		TotalAmount:     total,
	}); err != nil {
		return "", 0, err
	}
	for _, it := range items {
		if err := repos.InsertItemTx(tx, domain.OrderItem{
			OrderID:   orderID,
			ProductID: it.ProductID,
			Quantity:  it.Qty,
			Price:     it.Price,
		}); err != nil {
			return "", 0, err
		}
	}

	// Cart clears only once every write above is in.
	if err := repos.ClearTx(tx, cartID); err != nil {
		return "", 0, err
	}

	if err := tx.Commit(); err != nil {
		return "", 0, err
	}
	return orderID, total, nil
}

// SetStatus applies an admin status change. Transitions are deliberately
// free-form; only the move into cancelled has side effects. The restore
// runs at most once: a repeat cancel matches no row and restores nothing.
func (s *OrderService) SetStatus(orderID, status string) (restored bool, err error) {
	if !domain.ValidOrderStatus(status) {
		return false, ErrBadStatus
	}

	if status != domain.StatusCancelled {
		return false, s.Orders.UpdateStatus(orderID, status)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	changed, err := repos.MarkCancelledTx(tx, orderID)
	if err != nil {
		return false, err
	}
	if changed {
		var items []domain.OrderItem
		if err := tx.Select(&items, `
		  SELECT order_id, product_id, quantity, price
		  FROM order_items WHERE order_id = ?
		`, orderID); err != nil {
			return false, err
		}
		for _, it := range items {
			if err := repos.RestoreStock(tx, it.ProductID, it.Quantity); err != nil {
				return false, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return changed, nil
}

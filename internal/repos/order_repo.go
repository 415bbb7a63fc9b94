package repos

import (
	"github.com/jmoiron/sqlx"

	"maisonneuve/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) DB() *sqlx.DB { return r.db }

// ---------- Admin list summary ----------
type OrderSummary struct {
	ID            string  `db:"id"`
	CustomerName  string  `db:"customer_name"`
	CustomerEmail string  `db:"customer_email"`
	TotalAmount   float64 `db:"total_amount"`
	Status        string  `db:"status"`
	CreatedAt     string  `db:"created_at"`
}

// ---------- Order detail line (used by /order/:id and admin) ----------
type OrderItemRow struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Quantity  int     `db:"quantity"`
	Price     float64 `db:"price"`
	Subtotal  float64 `db:"subtotal"`
}

// CreateTx inserts the order header inside the checkout transaction.
func CreateTx(tx *sqlx.Tx, o domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, session_id, user_id, customer_name, customer_email, customer_phone, shipping_address, total_amount, status, created_at)
	  VALUES
	    (?,  ?,          ?,       ?,             ?,              ?,              ?,                ?,            'pending', CURRENT_TIMESTAMP)
	`, o.ID, o.SessionID, nullable(o.UserID), o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.ShippingAddress, o.TotalAmount)
	return err
}

// InsertItemTx inserts a single line item inside the checkout transaction.
func InsertItemTx(tx *sqlx.Tx, it domain.OrderItem) error {
	_, err := tx.Exec(`
	  INSERT INTO order_items(order_id, product_id, quantity, price)
	  VALUES(?, ?, ?, ?)
	`, it.OrderID, it.ProductID, it.Quantity, it.Price)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ---------- Used by order page/admin ----------

func (r *OrderRepo) Get(orderID string) (domain.Order, []OrderItemRow, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT id, COALESCE(session_id,'') AS session_id, COALESCE(user_id,'') AS user_id,
	         customer_name, customer_email, customer_phone, shipping_address,
	         total_amount, status, created_at
	  FROM orders
	  WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
	  SELECT oi.product_id, p.name, oi.quantity, oi.price, (oi.quantity * oi.price) AS subtotal
	  FROM order_items oi
	  JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY p.name
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

// Items returns the raw line items (used by stock restoration).
func (r *OrderRepo) Items(orderID string) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	err := r.db.Select(&out, `
	  SELECT order_id, product_id, quantity, price
	  FROM order_items
	  WHERE order_id = ?
	`, orderID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT id, customer_name, customer_email, total_amount, status, created_at
	  FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// ListForUser matches by user id OR customer email so orders placed
// before the account existed still show up.
func (r *OrderRepo) ListForUser(userID, email string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT id, customer_name, customer_email, total_amount, status, created_at
	  FROM orders
	  WHERE user_id = ? OR LOWER(customer_email) = LOWER(?)
	  ORDER BY datetime(created_at) DESC
	`, userID, email)
	return out, err
}

// ListBySession returns orders tied to a session id (guest checkout history).
func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
	  SELECT id, customer_name, customer_email, total_amount, status, created_at
	  FROM orders
	  WHERE session_id = ?
	  ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

// MarkCancelledTx flips an order into cancelled, but only once: a second
// cancellation matches zero rows, which gates the stock restoration.
func MarkCancelledTx(tx *sqlx.Tx, id string) (bool, error) {
	res, err := tx.Exec(`
	  UPDATE orders SET status = 'cancelled'
	  WHERE id = ? AND status <> 'cancelled'
	`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

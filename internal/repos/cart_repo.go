package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ProductID  string  `db:"product_id"`
	Name       string  `db:"name"`
	ImageURL   string  `db:"image_url"`
	Qty        int     `db:"qty"`
	PriceAtAdd float64 `db:"price_at_add"`
	Subtotal   float64 `db:"subtotal"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (r *CartRepo) UpsertItem(cartID, productID string, qty int, price float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(cart_id,product_id,qty,price_at_add,created_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(cart_id,product_id) DO UPDATE
	  SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, qty, price)
	return err
}

// SetQty overwrites a line quantity (the cart page quantity control).
func (r *CartRepo) SetQty(cartID, productID string, qty int) error {
	_, err := r.db.Exec(`
	  UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE cart_id = ? AND product_id = ?
	`, qty, cartID, productID)
	return err
}

func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=? AND product_id=?`, cartID, productID)
	return err
}

func (r *CartRepo) View(cartID string) ([]CartItemRow, float64, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.product_id, p.name, p.image_url, ci.qty, ci.price_at_add,
	         (ci.qty*ci.price_at_add) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id=ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY p.name
	`, cartID); err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, it := range rows {
		total += it.Subtotal
	}
	return rows, total, nil
}

type CartItem struct {
	ProductID string  `db:"product_id"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
	Name      string  `db:"name"`
	Stock     int     `db:"stock"`
}

// Items returns the checkout view of the cart with live stock attached.
func (r *CartRepo) Items(cartID string) ([]CartItem, error) {
	var out []CartItem
	err := r.db.Select(&out, `
	  SELECT ci.product_id, ci.qty, ci.price_at_add AS price, p.name, p.stock
	  FROM cart_items ci JOIN products p ON p.id=ci.product_id
	  WHERE ci.cart_id = ?
	`, cartID)
	return out, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

func ClearTx(tx *sqlx.Tx, cartID string) error {
	_, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// MergeForLogin combines the anonymous session cart with the user's
// existing cart; the result stays keyed to the current session.
func (r *CartRepo) MergeForLogin(userID, sid string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var anonID, userCartID sql.NullString

	if err := tx.Get(&anonID, `SELECT id FROM carts WHERE session_id=?`, sid); err != nil && err != sql.ErrNoRows {
		return err
	}
	if err := tx.Get(&userCartID, `SELECT id FROM carts WHERE user_id=? ORDER BY updated_at DESC LIMIT 1`, userID); err != nil && err != sql.ErrNoRows {
		return err
	}

	if !anonID.Valid {
		return tx.Commit()
	}

	// No user cart yet: convert the anon cart in place.
	if !userCartID.Valid || userCartID.String == anonID.String {
		if _, err := tx.Exec(`UPDATE carts SET user_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, userID, anonID.String); err != nil {
			return err
		}
		return tx.Commit()
	}

	// Both carts exist: fold the user's earlier cart into the current
	// session's cart, which then becomes the user cart. The merged cart
	// stays keyed to the live session, so every subsequent read sees it.
	type line struct {
		ProductID  string  `db:"product_id"`
		Qty        int     `db:"qty"`
		PriceAtAdd float64 `db:"price_at_add"`
	}
	var lines []line
	if err := tx.Select(&lines, `SELECT product_id, qty, price_at_add FROM cart_items WHERE cart_id=?`, userCartID.String); err != nil {
		return err
	}

	for _, it := range lines {
		_, err := tx.Exec(`
		  INSERT INTO cart_items(cart_id, product_id, qty, price_at_add, created_at, updated_at)
		  VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		  ON CONFLICT(cart_id, product_id) DO UPDATE SET
		    qty = cart_items.qty + excluded.qty,
		    updated_at = CURRENT_TIMESTAMP
		`, anonID.String, it.ProductID, it.Qty, it.PriceAtAdd)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM carts WHERE id=?`, userCartID.String); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE carts SET user_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, userID, anonID.String); err != nil {
		return err
	}

	return tx.Commit()
}

package repos

import (
	"github.com/jmoiron/sqlx"
)

// WishlistRepo stores saved products keyed by owner id: the session id
// for anonymous visitors, the user id once signed in.
type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Has(ownerID, productID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM wishlist_items WHERE owner_id=? AND product_id=?
	`, ownerID, productID)
	return n > 0, err
}

func (r *WishlistRepo) Add(ownerID, productID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_items(owner_id, product_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(owner_id, product_id) DO NOTHING
	`, ownerID, productID)
	return err
}

func (r *WishlistRepo) Remove(ownerID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE owner_id=? AND product_id=?`, ownerID, productID)
	return err
}

type WishlistRow struct {
	ProductID     string   `db:"product_id"`
	Name          string   `db:"name"`
	Price         float64  `db:"price"`
	DiscountPrice *float64 `db:"discount_price"`
	ImageURL      string   `db:"image_url"`
	Stock         int      `db:"stock"`
	Active        bool     `db:"active"`
}

func (w WishlistRow) OnSale() bool {
	return w.DiscountPrice != nil && *w.DiscountPrice > 0 && *w.DiscountPrice < w.Price
}

// EffectivePrice is what the customer pays today.
func (w WishlistRow) EffectivePrice() float64 {
	if w.OnSale() {
		return *w.DiscountPrice
	}
	return w.Price
}

func (r *WishlistRepo) List(ownerID string) ([]WishlistRow, error) {
	var out []WishlistRow
	err := r.db.Select(&out, `
	  SELECT p.id AS product_id, p.name, p.price, p.discount_price, p.image_url, p.stock, p.active
	  FROM wishlist_items wi
	  JOIN products p ON p.id = wi.product_id
	  WHERE wi.owner_id = ?
	  ORDER BY p.name
	`, ownerID)
	return out, err
}

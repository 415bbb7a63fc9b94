package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"maisonneuve/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, description, category, price, discount_price, image_url, stock, active,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) List(category string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?
	`, args...)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) Search(q, category string, limit, offset int) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?
	`, args...)
	return out, err
}

// Categories lists the distinct category strings of active products.
func (r *ProductRepo) Categories() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `
	  SELECT DISTINCT category FROM products
	  WHERE active = 1 AND category != ''
	  ORDER BY category
	`)
	return out, err
}

// ---------- Admin CRUD ----------

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, description, category, price, discount_price, image_url, stock, active, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Description, p.Category, p.Price, p.DiscountPrice, p.ImageURL, p.Stock, p.Active)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, description=?, category=?, price=?, discount_price=?, image_url=?, stock=?, active=?,
	      updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Name, p.Description, p.Category, p.Price, p.DiscountPrice, p.ImageURL, p.Stock, p.Active, p.ID)
	return err
}

// Delete removes the product row. Fails with a foreign-key error when
// order history references the product; callers fall back to Deactivate.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}

func (r *ProductRepo) Deactivate(id string) error {
	_, err := r.db.Exec(`UPDATE products SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

// ---------- Stock ----------

func (r *ProductRepo) Stock(id string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock FROM products WHERE id=?`, id)
	return qty, err
}

// DecrementStock subtracts "by" units only if enough stock exists, so two
// concurrent checkouts cannot both pass. Callers run it inside the
// checkout transaction.
func DecrementStock(tx *sqlx.Tx, productID string, by int) error {
	res, err := tx.Exec(`
	  UPDATE products
	  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	`, by, productID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for %s", productID)
	}
	return nil
}

// RestoreStock adds quantity back on order cancellation.
func RestoreStock(tx *sqlx.Tx, productID string, by int) error {
	_, err := tx.Exec(`
	  UPDATE products
	  SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, by, productID)
	return err
}

// ---------- Gallery ----------

func (r *ProductRepo) Images(productID string) ([]domain.ProductImage, error) {
	var out []domain.ProductImage
	err := r.db.Select(&out, `
	  SELECT id, product_id, image_url, display_order, COALESCE(created_at,'') AS created_at
	  FROM product_images
	  WHERE product_id = ?
	  ORDER BY display_order, created_at
	`, productID)
	return out, err
}

// SecondaryImages maps product id to its display_order=0 gallery image,
// the hover image on catalog cards.
func (r *ProductRepo) SecondaryImages(productIDs []string) (map[string]string, error) {
	out := map[string]string{}
	if len(productIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`
	  SELECT product_id, image_url FROM product_images
	  WHERE display_order = 0 AND product_id IN (?)
	`, productIDs)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ProductID string `db:"product_id"`
		ImageURL  string `db:"image_url"`
	}
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = row.ImageURL
	}
	return out, nil
}

func (r *ProductRepo) InsertImage(img domain.ProductImage) error {
	_, err := r.db.Exec(`
	  INSERT INTO product_images(id, product_id, image_url, display_order, created_at)
	  VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, img.ID, img.ProductID, img.ImageURL, img.DisplayOrder)
	return err
}

func (r *ProductRepo) GetImage(id string) (domain.ProductImage, error) {
	var img domain.ProductImage
	err := r.db.Get(&img, `
	  SELECT id, product_id, image_url, display_order, COALESCE(created_at,'') AS created_at
	  FROM product_images WHERE id = ?
	`, id)
	return img, err
}

func (r *ProductRepo) DeleteImage(id string) error {
	_, err := r.db.Exec(`DELETE FROM product_images WHERE id=?`, id)
	return err
}

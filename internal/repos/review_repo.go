package repos

import (
	"github.com/jmoiron/sqlx"

	"maisonneuve/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Insert(rev domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id, product_id, user_id, order_id, rating, comment, status, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, 'pending', CURRENT_TIMESTAMP)
	`, rev.ID, rev.ProductID, rev.UserID, rev.OrderID, rev.Rating, rev.Comment)
	return err
}

// Exists reports whether the user already reviewed the product, in any
// moderation state.
func (r *ReviewRepo) Exists(userID, productID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM reviews WHERE user_id = ? AND product_id = ?
	`, userID, productID)
	return n > 0, err
}

// DeliveredOrderFor finds a delivered order containing the product that
// belongs to the user, matched by user id OR customer email (orders
// placed before account linkage carry only the email).
func (r *ReviewRepo) DeliveredOrderFor(userID, email, productID string) (string, error) {
	var orderID string
	err := r.db.Get(&orderID, `
	  SELECT o.id
	  FROM orders o
	  JOIN order_items oi ON oi.order_id = o.id
	  WHERE o.status = 'delivered'
	    AND oi.product_id = ?
	    AND (o.user_id = ? OR LOWER(o.customer_email) = LOWER(?))
	  ORDER BY datetime(o.created_at)
	  LIMIT 1
	`, productID, userID, email)
	return orderID, err
}

// ApprovedRow carries the reviewer name for public display.
type ApprovedRow struct {
	domain.Review
	ReviewerName string `db:"reviewer_name"`
}

func (r *ReviewRepo) ListApproved(productID string) ([]ApprovedRow, error) {
	var out []ApprovedRow
	err := r.db.Select(&out, `
	  SELECT rv.id, rv.product_id, rv.user_id, rv.order_id, rv.rating, rv.comment, rv.status,
	         rv.created_at, COALESCE(rv.updated_at,'') AS updated_at,
	         COALESCE(u.name,'Customer') AS reviewer_name
	  FROM reviews rv
	  LEFT JOIN users u ON u.id = rv.user_id
	  WHERE rv.product_id = ? AND rv.status = 'approved'
	  ORDER BY datetime(rv.created_at) DESC
	`, productID)
	return out, err
}

// ModerationRow carries product and reviewer context for the admin queue.
type ModerationRow struct {
	domain.Review
	ProductName  string `db:"product_name"`
	ReviewerName string `db:"reviewer_name"`
}

// ListForModeration returns reviews in a given status, or all when
// status is empty, newest first.
func (r *ReviewRepo) ListForModeration(status string, limit int) ([]ModerationRow, error) {
	if limit <= 0 {
		limit = 200
	}
	where := `1=1`
	args := []any{}
	if status != "" {
		where = `rv.status = ?`
		args = append(args, status)
	}
	args = append(args, limit)

	var out []ModerationRow
	err := r.db.Select(&out, `
	  SELECT rv.id, rv.product_id, rv.user_id, rv.order_id, rv.rating, rv.comment, rv.status,
	         rv.created_at, COALESCE(rv.updated_at,'') AS updated_at,
	         p.name AS product_name,
	         COALESCE(u.name,'Customer') AS reviewer_name
	  FROM reviews rv
	  JOIN products p ON p.id = rv.product_id
	  LEFT JOIN users u ON u.id = rv.user_id
	  WHERE `+where+`
	  ORDER BY datetime(rv.created_at) DESC
	  LIMIT ?
	`, args...)
	return out, err
}

// CountByStatus powers the moderation filter tabs.
func (r *ReviewRepo) CountByStatus() (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := r.db.Select(&rows, `SELECT status, COUNT(*) AS n FROM reviews GROUP BY status`); err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *ReviewRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`
	  UPDATE reviews SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	return err
}

func (r *ReviewRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM reviews WHERE id = ?`, id)
	return err
}

// Summary computes the approved-only average and per-star histogram.
func (r *ReviewRepo) Summary(productID string) (domain.ReviewSummary, error) {
	var rows []struct {
		Rating int `db:"rating"`
		N      int `db:"n"`
	}
	if err := r.db.Select(&rows, `
	  SELECT rating, COUNT(*) AS n
	  FROM reviews
	  WHERE product_id = ? AND status = 'approved'
	  GROUP BY rating
	`, productID); err != nil {
		return domain.ReviewSummary{}, err
	}

	var s domain.ReviewSummary
	sum := 0
	for _, row := range rows {
		if row.Rating < 1 || row.Rating > 5 {
			continue
		}
		s.Histogram[row.Rating-1] = row.N
		s.Total += row.N
		sum += row.Rating * row.N
	}
	if s.Total > 0 {
		s.Average = float64(sum) / float64(s.Total)
	}
	return s, nil
}

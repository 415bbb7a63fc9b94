package repos

import (
	"github.com/jmoiron/sqlx"

	"maisonneuve/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role,created_at FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role,created_at FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `
	  SELECT id,email,name,password_hash,role,created_at FROM users
	  WHERE role != 'ADMIN'
	  ORDER BY email
	`)
	return out, err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
	                     VALUES(?,?,CURRENT_TIMESTAMP)
	                     ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT u.id,u.email,u.name,u.password_hash,u.role,u.created_at
	  FROM sessions s
	  JOIN users u ON u.id=s.user_id
	  WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// DeleteUserCascade cancels the user's orders (kept for audit), removes
// their reviews, wishlist, carts and sessions, then the user row.
func (r *UserRepo) DeleteUserCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Cancelling restores stock, same as the admin transition.
	if _, err := tx.Exec(`
	  UPDATE products SET stock = stock + (
	    SELECT COALESCE(SUM(oi.quantity),0)
	    FROM order_items oi
	    JOIN orders o ON o.id = oi.order_id
	    WHERE o.user_id=? AND o.status='pending' AND oi.product_id = products.id
	  )
	  WHERE id IN (
	    SELECT oi.product_id FROM order_items oi
	    JOIN orders o ON o.id = oi.order_id
	    WHERE o.user_id=? AND o.status='pending'
	  )`, userID, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE orders SET status='cancelled' WHERE user_id=? AND status='pending'`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM reviews WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM wishlist_items WHERE owner_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM carts WHERE user_id=?`, userID); err != nil {
		return err
	}

	var sessionIDs []string
	if err := tx.Select(&sessionIDs, `SELECT id FROM sessions WHERE user_id=?`, userID); err != nil {
		return err
	}
	if len(sessionIDs) > 0 {
		query, args, err := sqlx.In(`DELETE FROM carts WHERE session_id IN (?)`, sessionIDs)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return err
		}
		query, args, err = sqlx.In(`DELETE FROM sessions WHERE id IN (?)`, sessionIDs)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}

	return tx.Commit()
}

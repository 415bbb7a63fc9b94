package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"maisonneuve/internal/repos"
	"maisonneuve/internal/services"
)

// deliveredOrder seeds an order directly in the given status so the
// eligibility tests do not depend on the checkout path.
func deliveredOrder(t *testing.T, db *sqlx.DB, id, userID, email, productID, status string) {
	t.Helper()
	if _, err := db.Exec(`
	  INSERT INTO orders(id, session_id, user_id, customer_name, customer_email, total_amount, status)
	  VALUES(?, 's', ?, 'T', ?, 10, ?)
	`, id, nullIfEmpty(userID), email, status); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`
	  INSERT INTO order_items(order_id, product_id, quantity, price) VALUES(?, ?, 1, 10)
	`, id, productID); err != nil {
		t.Fatal(err)
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func TestCanReview_RequiresDeliveredOrder(t *testing.T) {
	db := memdb(t)
	svc := services.NewReviewService(repos.NewReviewRepo(db))

	// no order at all
	ok, err := svc.CanReview("u-alice", "alice@maisonneuve.test", "tote-001")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("no order, must not be eligible")
	}

	// order exists but is only shipped
	deliveredOrder(t, db, "o-shipped", "u-alice", "alice@maisonneuve.test", "tote-001", "shipped")
	ok, err = svc.CanReview("u-alice", "alice@maisonneuve.test", "tote-001")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("shipped order must not grant eligibility")
	}

	// delivered, but for a different product
	deliveredOrder(t, db, "o-other", "u-alice", "alice@maisonneuve.test", "hoodie-001", "delivered")
	ok, _ = svc.CanReview("u-alice", "alice@maisonneuve.test", "tote-001")
	if ok {
		t.Fatal("delivered order for another product must not count")
	}

	// delivered with the product
	deliveredOrder(t, db, "o-good", "u-alice", "alice@maisonneuve.test", "tote-001", "delivered")
	ok, err = svc.CanReview("u-alice", "alice@maisonneuve.test", "tote-001")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("delivered order with the product should grant eligibility")
	}
}

// Guest checkouts carry only the customer email; eligibility must still
// attach once the same address signs in.
func TestCanReview_MatchesByEmail(t *testing.T) {
	db := memdb(t)
	svc := services.NewReviewService(repos.NewReviewRepo(db))

	deliveredOrder(t, db, "o-guest", "", "Alice@Maisonneuve.Test", "sneakers-001", "delivered")

	ok, err := svc.CanReview("u-alice", "alice@maisonneuve.test", "sneakers-001")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("email match (case-insensitive) should grant eligibility")
	}
}

func TestSubmit_RatingBoundsAndDuplicates(t *testing.T) {
	db := memdb(t)
	svc := services.NewReviewService(repos.NewReviewRepo(db))

	deliveredOrder(t, db, "o-1", "u-alice", "alice@maisonneuve.test", "tote-001", "delivered")

	for _, bad := range []int{0, -1, 6} {
		if _, err := svc.Submit("u-alice", "alice@maisonneuve.test", "tote-001", bad, "x"); !errors.Is(err, services.ErrBadRating) {
			t.Fatalf("rating %d: want ErrBadRating, got %v", bad, err)
		}
	}

	id, err := svc.Submit("u-alice", "alice@maisonneuve.test", "tote-001", 5, "Lovely bag")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("no review id")
	}

	// one review per customer per product, even while still pending
	if _, err := svc.Submit("u-alice", "alice@maisonneuve.test", "tote-001", 4, "Again"); !errors.Is(err, services.ErrAlreadyReviewed) {
		t.Fatalf("want ErrAlreadyReviewed, got %v", err)
	}

	// ineligible user is refused before the duplicate check
	if _, err := svc.Submit("u-bob", "bob@maisonneuve.test", "tote-001", 4, "Drive-by"); !errors.Is(err, services.ErrNotEligible) {
		t.Fatalf("want ErrNotEligible, got %v", err)
	}
}

func TestModerationFlowAndSummary(t *testing.T) {
	db := memdb(t)
	reviewRepo := repos.NewReviewRepo(db)
	svc := services.NewReviewService(reviewRepo)

	deliveredOrder(t, db, "o-a", "u-alice", "alice@maisonneuve.test", "tote-001", "delivered")
	deliveredOrder(t, db, "o-b", "u-bob", "bob@maisonneuve.test", "tote-001", "delivered")

	idA, err := svc.Submit("u-alice", "alice@maisonneuve.test", "tote-001", 5, "Great")
	if err != nil {
		t.Fatal(err)
	}
	idB, err := svc.Submit("u-bob", "bob@maisonneuve.test", "tote-001", 2, "Meh")
	if err != nil {
		t.Fatal(err)
	}

	// pending reviews are invisible to shoppers
	approved, err := reviewRepo.ListApproved("tote-001")
	if err != nil {
		t.Fatal(err)
	}
	if len(approved) != 0 {
		t.Fatalf("pending reviews leaked to the product page: %+v", approved)
	}

	if err := svc.Moderate(idA, "approved"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Moderate(idB, "rejected"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Moderate(idB, "sideways"); err == nil {
		t.Fatal("unknown moderation status must fail")
	}

	approved, err = reviewRepo.ListApproved("tote-001")
	if err != nil {
		t.Fatal(err)
	}
	if len(approved) != 1 || approved[0].ID != idA {
		t.Fatalf("want only the approved review, got %+v", approved)
	}
	if approved[0].ReviewerName != "Alice" {
		t.Fatalf("want reviewer name Alice, got %q", approved[0].ReviewerName)
	}

	// summary counts approved only
	sum, err := reviewRepo.Summary("tote-001")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 1 || sum.Average != 5.0 || sum.Histogram[4] != 1 {
		t.Fatalf("bad summary: %+v", sum)
	}

	// moderation is re-toggleable
	if err := svc.Moderate(idB, "approved"); err != nil {
		t.Fatal(err)
	}
	sum, _ = reviewRepo.Summary("tote-001")
	if sum.Total != 2 || sum.Average != 3.5 || sum.Histogram[1] != 1 {
		t.Fatalf("bad summary after re-approve: %+v", sum)
	}
}

func TestQueue_FiltersAndCounts(t *testing.T) {
	db := memdb(t)
	svc := services.NewReviewService(repos.NewReviewRepo(db))

	deliveredOrder(t, db, "o-a", "u-alice", "alice@maisonneuve.test", "tote-001", "delivered")
	deliveredOrder(t, db, "o-b", "u-bob", "bob@maisonneuve.test", "hoodie-001", "delivered")

	idA, err := svc.Submit("u-alice", "alice@maisonneuve.test", "tote-001", 4, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit("u-bob", "bob@maisonneuve.test", "hoodie-001", 3, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.Moderate(idA, "approved"); err != nil {
		t.Fatal(err)
	}

	rows, counts, err := svc.Queue("pending")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ProductName != "Fleece Hoodie" {
		t.Fatalf("bad pending queue: %+v", rows)
	}
	if counts["pending"] != 1 || counts["approved"] != 1 {
		t.Fatalf("bad counts: %+v", counts)
	}

	rows, _, err = svc.Queue("all")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows for all, got %d", len(rows))
	}

	// unknown filters fall back to pending
	rows, _, err = svc.Queue("bogus")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("bogus filter should behave as pending, got %d rows", len(rows))
	}
}

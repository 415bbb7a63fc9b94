package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"maisonneuve/internal/domain"
	"maisonneuve/internal/repos"
)

var (
	ErrNotEligible     = errors.New("no delivered order containing this product")
	ErrAlreadyReviewed = errors.New("product already reviewed")
	ErrBadRating       = errors.New("rating must be between 1 and 5")
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
}

func NewReviewService(reviews *repos.ReviewRepo) *ReviewService {
	return &ReviewService{Reviews: reviews}
}

// CanReview is true iff the user has a delivered order containing the
// product, matched by user id or customer email.
func (s *ReviewService) CanReview(userID, email, productID string) (bool, error) {
	_, err := s.Reviews.DeliveredOrderFor(userID, email, productID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ReviewService) HasReviewed(userID, productID string) (bool, error) {
	return s.Reviews.Exists(userID, productID)
}

// Submit creates a pending review after the eligibility and duplicate
// checks pass. The rating domain is enforced here, not just in the UI.
func (s *ReviewService) Submit(userID, email, productID string, rating int, comment string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", ErrBadRating
	}

	orderID, err := s.Reviews.DeliveredOrderFor(userID, email, productID)
	if err == sql.ErrNoRows {
		return "", ErrNotEligible
	}
	if err != nil {
		return "", err
	}

	reviewed, err := s.Reviews.Exists(userID, productID)
	if err != nil {
		return "", err
	}
	if reviewed {
		return "", ErrAlreadyReviewed
	}

	id := uuid.NewString()
	if err := s.Reviews.Insert(domain.Review{
		ID:        id,
		ProductID: productID,
		UserID:    userID,
		OrderID:   orderID,
		Rating:    rating,
		Comment:   comment,
	}); err != nil {
		return "", err
	}
	return id, nil
}

// Moderate sets approved or rejected; the two are freely re-toggleable.
func (s *ReviewService) Moderate(reviewID, status string) error {
	if status != domain.ReviewApproved && status != domain.ReviewRejected {
		return errors.New("status must be approved or rejected")
	}
	return s.Reviews.UpdateStatus(reviewID, status)
}

// Delete is terminal; there is no undo.
func (s *ReviewService) Delete(reviewID string) error {
	return s.Reviews.Delete(reviewID)
}

// Queue returns the moderation list for a filter tab plus per-status
// counts. filter "" or "all" means everything.
func (s *ReviewService) Queue(filter string) ([]repos.ModerationRow, map[string]int, error) {
	status := filter
	switch filter {
	case "", "all":
		status = ""
	case domain.ReviewPending, domain.ReviewApproved, domain.ReviewRejected:
	default:
		status = domain.ReviewPending
	}
	rows, err := s.Reviews.ListForModeration(status, 200)
	if err != nil {
		return nil, nil, err
	}
	counts, err := s.Reviews.CountByStatus()
	if err != nil {
		return nil, nil, err
	}
	return rows, counts, nil
}

package services

import "maisonneuve/internal/repos"

// WishlistService keys rows by owner: the session id until sign-in, the
// user id after. On login the user's saved set simply supersedes the
// anonymous one; no merge is performed.
type WishlistService struct {
	Repo *repos.WishlistRepo
}

func NewWishlistService(r *repos.WishlistRepo) *WishlistService { return &WishlistService{Repo: r} }

// Toggle saves the product, or removes it when already saved. Returns
// true when the product ended up saved.
func (s *WishlistService) Toggle(ownerID, productID string) (bool, error) {
	has, err := s.Repo.Has(ownerID, productID)
	if err != nil {
		return false, err
	}
	if has {
		return false, s.Repo.Remove(ownerID, productID)
	}
	return true, s.Repo.Add(ownerID, productID)
}

func (s *WishlistService) Remove(ownerID, productID string) error {
	return s.Repo.Remove(ownerID, productID)
}

func (s *WishlistService) List(ownerID string) ([]repos.WishlistRow, error) {
	return s.Repo.List(ownerID)
}

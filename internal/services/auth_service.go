package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"maisonneuve/internal/domain"
	"maisonneuve/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users *repos.UserRepo
	Carts *repos.CartRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	// Fold the anonymous cart into the user's cart. The wishlist is NOT
	// merged: the signed-in set supersedes the session set wholesale.
	if s.Carts != nil {
		_ = s.Carts.MergeForLogin(u.ID, sid)
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

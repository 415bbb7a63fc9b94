package services_test

import (
	"testing"

	"maisonneuve/internal/repos"
	"maisonneuve/internal/services"
)

func TestWishlistToggle(t *testing.T) {
	db := memdb(t)
	svc := services.NewWishlistService(repos.NewWishlistRepo(db))

	owner := "anon-session"
	saved, err := svc.Toggle(owner, "tote-001")
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatal("first toggle should save")
	}

	items, err := svc.List(owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != "tote-001" {
		t.Fatalf("bad wishlist: %+v", items)
	}
	if !items[0].OnSale() || items[0].EffectivePrice() != 39.00 {
		t.Fatalf("sale price missing from wishlist row: %+v", items[0])
	}

	saved, err = svc.Toggle(owner, "tote-001")
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Fatal("second toggle should remove")
	}
	items, _ = svc.List(owner)
	if len(items) != 0 {
		t.Fatalf("wishlist should be empty: %+v", items)
	}
}

// The session wishlist stays behind on sign-in; the account's own saved
// set takes over.
func TestWishlistOwnerSwitchOnLogin(t *testing.T) {
	db := memdb(t)
	wishRepo := repos.NewWishlistRepo(db)
	svc := services.NewWishlistService(wishRepo)

	sid := "anon-session"
	if _, err := svc.Toggle(sid, "tote-001"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Toggle("u-alice", "watch-001"); err != nil {
		t.Fatal(err)
	}

	auth := &services.AuthService{Users: repos.NewUserRepo(db), Carts: repos.NewCartRepo(db)}
	if _, err := auth.Login(sid, "alice@maisonneuve.test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}

	// reads now key on the user id, not the session
	items, err := svc.List("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != "watch-001" {
		t.Fatalf("account set should supersede, got %+v", items)
	}
}

package handlers

import (
	"github.com/jmoiron/sqlx"

	"maisonneuve/internal/repos"
	"maisonneuve/internal/services"
	"maisonneuve/internal/storage"
)

type Deps struct {
	CatalogHandler  *CatalogHandler
	ProductHandler  *ProductHandler
	SearchHandler   *SearchHandler
	StockHandler    *StockHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	WishlistHandler *WishlistHandler
	ReviewHandler   *ReviewHandler
	AccountHandler  *AccountHandler

	AdminHandler        *AdminHandler
	AdminProductHandler *AdminProductHandler
	AdminReviewHandler  *AdminReviewHandler
}

func NewDeps(db *sqlx.DB, images storage.ImageStore, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, reviewRepo)
	stockSvc := services.NewStockService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(db, cartRepo, orderRepo)
	wishSvc := services.NewWishlistService(wishRepo)
	reviewSvc := services.NewReviewService(reviewRepo)

	return &Deps{
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Reviews: reviewSvc, Wish: wishSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
		StockHandler:    &StockHandler{Stock: stockSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo, Auth: auth},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
		ReviewHandler:   &ReviewHandler{Reviews: reviewSvc},
		AccountHandler:  &AccountHandler{Orders: orderRepo},

		AdminHandler:        &AdminHandler{Orders: orderSvc, OrderRepo: orderRepo, Users: userRepo},
		AdminProductHandler: &AdminProductHandler{Prods: prodRepo, Images: images},
		AdminReviewHandler:  &AdminReviewHandler{Reviews: reviewSvc},
	}
}

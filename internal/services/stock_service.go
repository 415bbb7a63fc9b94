package services

import (
	"database/sql"

	"maisonneuve/internal/domain"
	"maisonneuve/internal/repos"
)

type StockService struct {
	Prods *repos.ProductRepo
}

func NewStockService(prods *repos.ProductRepo) *StockService {
	return &StockService{Prods: prods}
}

// CheckAvailability converts a stock count into the storefront banding.
func (s *StockService) CheckAvailability(productID string) (domain.Availability, error) {
	qty, err := s.Prods.Stock(productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case qty >= 5:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}, nil
}

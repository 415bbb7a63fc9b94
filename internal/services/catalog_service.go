package services

import (
	"maisonneuve/internal/domain"
	"maisonneuve/internal/repos"
)

type CatalogService struct {
	Prods   *repos.ProductRepo
	Reviews *repos.ReviewRepo
}

func NewCatalogService(prods *repos.ProductRepo, reviews *repos.ReviewRepo) *CatalogService {
	return &CatalogService{Prods: prods, Reviews: reviews}
}

// Card is one catalog entry: the product plus the hover image
// (gallery row with display_order 0, when one exists).
type Card struct {
	domain.Product
	SecondaryImage string
}

func (s *CatalogService) ListCards(category string, page, pageSize int) ([]Card, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	products, err := s.Prods.List(category, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.toCards(products)
}

func (s *CatalogService) Search(q, category string, page, pageSize int) ([]Card, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	products, err := s.Prods.Search(q, category, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.toCards(products)
}

func (s *CatalogService) toCards(products []domain.Product) ([]Card, error) {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	secondary, err := s.Prods.SecondaryImages(ids)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, Card{Product: p, SecondaryImage: secondary[p.ID]})
	}
	return cards, nil
}

func (s *CatalogService) Categories() ([]string, error) {
	return s.Prods.Categories()
}

// Detail is everything the product page needs in one fetch.
type Detail struct {
	Product domain.Product
	Gallery []domain.ProductImage
	Reviews []repos.ApprovedRow
	Summary domain.ReviewSummary
}

func (s *CatalogService) GetDetail(id string) (Detail, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return Detail{}, err
	}
	gallery, err := s.Prods.Images(id)
	if err != nil {
		return Detail{}, err
	}
	reviews, err := s.Reviews.ListApproved(id)
	if err != nil {
		return Detail{}, err
	}
	summary, err := s.Reviews.Summary(id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Product: p, Gallery: gallery, Reviews: reviews, Summary: summary}, nil
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

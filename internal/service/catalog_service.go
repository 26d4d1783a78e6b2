package service

import (
	"context"
	"errors"
	"strings"

	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/repository/ports"
	"github.com/njprem/storefront/internal/util"
)

var ErrProductNotFound = errors.New("product not found")

const (
	defaultProductPageSize = 20
	maxProductPageSize     = 100
)

type CatalogService struct {
	products ports.ProductRepository
}

type ProductListResult struct {
	Products []domain.Product
	Total    int64
	Limit    int
	Offset   int
}

func NewCatalogService(productRepo ports.ProductRepository) *CatalogService {
	return &CatalogService{products: productRepo}
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) List(ctx context.Context, filter domain.ProductListFilter) (*ProductListResult, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Limit, filter.Offset = util.NormalizePage(filter.Limit, filter.Offset, defaultProductPageSize, maxProductPageSize)

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return &ProductListResult{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}

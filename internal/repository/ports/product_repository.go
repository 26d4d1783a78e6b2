package ports

import (
	"context"

	"github.com/njprem/storefront/internal/domain"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductListFilter) ([]domain.Product, error)
	Count(ctx context.Context, filter domain.ProductListFilter) (int64, error)
}

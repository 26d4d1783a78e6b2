package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/storefront/internal/domain"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID uuid.UUID, productID int64) (*domain.Favorite, error)
	Remove(ctx context.Context, userID uuid.UUID, productID int64) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteListItem, error)
	CountByProduct(ctx context.Context, productID int64) (int64, error)
}

// FavoriteCountCache holds per-product favorite counts for the public count
// endpoint. Get reports ok=false on a miss.
type FavoriteCountCache interface {
	Get(ctx context.Context, productID int64) (count int64, ok bool, err error)
	Set(ctx context.Context, productID int64, count int64, ttl time.Duration) error
	Invalidate(ctx context.Context, productID int64) error
}

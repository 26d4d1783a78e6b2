package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/storefront/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error)
	// MarkCancelled flips a placed order to cancelled. It returns
	// sql.ErrNoRows when the order is not in the placed state any more.
	MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Order, error)
}

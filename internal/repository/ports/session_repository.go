package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/storefront/internal/domain"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error)
	DeactivateSession(ctx context.Context, token string) error
	// FindActiveSession returns sql.ErrNoRows for unknown or revoked tokens.
	// Expired rows are still returned; callers check domain.Session.Usable.
	FindActiveSession(ctx context.Context, token string) (*domain.Session, error)
	PruneExpired(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

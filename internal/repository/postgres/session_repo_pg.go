package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/repository/ports"
)

const sessionColumns = `id, user_id, token, created_at, expires_at, is_active`

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepo(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	const query = `
		INSERT INTO sessions (user_id, token, expires_at, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING ` + sessionColumns
	var session domain.Session
	if err := r.db.GetContext(ctx, &session, query, userID, token, expiresAt); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActiveSession loads a session that has not been revoked. Expiry is left
// to domain.Session.Usable so the service clock decides it.
func (r *SessionRepository) FindActiveSession(ctx context.Context, token string) (*domain.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE token = $1 AND is_active = true`
	var session domain.Session
	if err := r.db.GetContext(ctx, &session, query, token); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) DeactivateSession(ctx context.Context, token string) error {
	const query = `
		UPDATE sessions SET is_active = false, expires_at = LEAST(expires_at, NOW())
		WHERE token = $1 AND is_active = true
	`
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}

// PruneExpired revokes the user's sessions whose expiry is at or before now
// and reports how many rows changed.
func (r *SessionRepository) PruneExpired(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	const query = `
		UPDATE sessions SET is_active = false
		WHERE user_id = $1 AND is_active = true AND expires_at <= $2
	`
	result, err := r.db.ExecContext(ctx, query, userID, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

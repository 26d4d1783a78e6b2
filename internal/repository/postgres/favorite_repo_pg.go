package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/repository/ports"
)

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add returns sql.ErrNoRows when the product is already a favorite.
func (r *FavoriteRepository) Add(ctx context.Context, userID uuid.UUID, productID int64) (*domain.Favorite, error) {
	const query = `
		INSERT INTO favorite (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING user_id, product_id, created_at
	`

	var favorite domain.Favorite
	if err := r.db.GetContext(ctx, &favorite, query, userID, productID); err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID uuid.UUID, productID int64) error {
	const query = `
		DELETE FROM favorite
		WHERE user_id = $1 AND product_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteListItem, error) {
	const query = `
		SELECT
			f.user_id,
			f.product_id,
			f.created_at,
			p.name AS product_name,
			p.category,
			p.price_cents
		FROM favorite f
		JOIN product p ON p.id = f.product_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.product_id DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.FavoriteListItem, 0)
	for rows.Next() {
		var item domain.FavoriteListItem
		if err := rows.StructScan(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *FavoriteRepository) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM favorite WHERE product_id = $1`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, productID); err != nil {
		return 0, err
	}
	return count, nil
}

var _ ports.FavoriteRepository = (*FavoriteRepository)(nil)

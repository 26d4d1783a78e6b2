package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/repository/ports"
)

const productColumns = `id, name, description, category, price_cents, available, created_at`

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM product WHERE id = $1`
	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductListFilter) ([]domain.Product, error) {
	where, args := productWhere(filter)
	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + productColumns + ` FROM product` + where +
		` ORDER BY name ASC, id ASC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	products := make([]domain.Product, 0)
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductListFilter) (int64, error) {
	where, args := productWhere(filter)
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM product`+where, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func productWhere(filter domain.ProductListFilter) (string, []any) {
	clauses := []string{"available = true"}
	var args []any
	if c := strings.TrimSpace(filter.Category); c != "" {
		args = append(args, strings.ToLower(c))
		clauses = append(clauses, "LOWER(category) = $"+strconv.Itoa(len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

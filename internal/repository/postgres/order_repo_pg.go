package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/repository/ports"
)

const orderColumns = `id, user_id, status, total_cents, note, created_at, cancelled_at`

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepo(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	var created domain.Order
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insertOrder = `
			INSERT INTO customer_order (user_id, status, total_cents, note)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + orderColumns
		if err := tx.QueryRowxContext(ctx, insertOrder, order.UserID, order.Status, order.TotalCents, order.Note).StructScan(&created); err != nil {
			return err
		}

		const insertItem = `
			INSERT INTO order_item (order_id, product_id, quantity, price_cents)
			VALUES ($1, $2, $3, $4)
		`
		created.Items = make([]domain.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			if _, err := tx.ExecContext(ctx, insertItem, created.ID, item.ProductID, item.Quantity, item.PriceCents); err != nil {
				return err
			}
			item.OrderID = created.ID
			created.Items = append(created.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM customer_order WHERE id = $1`
	var order domain.Order
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, err
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	const query = `
		SELECT ` + orderColumns + `
		FROM customer_order
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	orders := make([]domain.Order, 0)
	if err := r.db.SelectContext(ctx, &orders, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Order, error) {
	const query = `
		UPDATE customer_order
		SET status = $2, cancelled_at = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + orderColumns
	var order domain.Order
	if err := r.db.GetContext(ctx, &order, query, id, domain.OrderStatusCancelled, at, domain.OrderStatusPlaced); err != nil {
		return nil, err
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	const query = `
		SELECT order_id, product_id, quantity, price_cents
		FROM order_item
		WHERE order_id = $1
		ORDER BY product_id
	`
	items := make([]domain.OrderItem, 0)
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

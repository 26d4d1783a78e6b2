package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	UserID      uuid.UUID   `db:"user_id" json:"userId"`
	Status      OrderStatus `db:"status" json:"status"`
	TotalCents  int64       `db:"total_cents" json:"totalCents"`
	Note        *string     `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	CancelledAt *time.Time  `db:"cancelled_at" json:"cancelledAt,omitempty"`
	Items       []OrderItem `db:"-" json:"items"`
}

type OrderItem struct {
	OrderID    uuid.UUID `db:"order_id" json:"-"`
	ProductID  int64     `db:"product_id" json:"productId"`
	Quantity   int       `db:"quantity" json:"quantity"`
	PriceCents int64     `db:"price_cents" json:"priceCents"`
}

func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPlaced
}

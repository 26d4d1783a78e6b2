package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is one member of a user's favorites set. The set is owned by the
// server; clients re-read it before every change.
type Favorite struct {
	UserID    uuid.UUID `db:"user_id" json:"-"`
	ProductID int64     `db:"product_id" json:"productId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type FavoriteListItem struct {
	Favorite
	ProductName string `db:"product_name" json:"productName"`
	Category    string `db:"category" json:"category"`
	PriceCents  int64  `db:"price_cents" json:"priceCents"`
}

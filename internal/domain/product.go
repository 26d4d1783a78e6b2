package domain

import "time"

type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category"`
	PriceCents  int64     `db:"price_cents" json:"priceCents"`
	Available   bool      `db:"available" json:"available"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type ProductListFilter struct {
	Category string
	Limit    int
	Offset   int
}

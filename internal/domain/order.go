package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the immutable record of a completed checkout. Line items carry
// the price that was current when the order was created, so later catalog
// edits or deletions never change what the customer was charged.
type Order struct {
	ID                   uuid.UUID   `json:"id" db:"id"`
	UserID               uuid.UUID   `json:"user_id" db:"user_id"`
	Items                []OrderItem `json:"items"`
	TotalCents           int64       `json:"total_cents" db:"total_cents"`
	DiscountedTotalCents int64       `json:"discounted_total_cents" db:"discounted_total_cents"`
	Discount             float64     `json:"discount" db:"discount"`
	PromoCode            string      `json:"promo_code" db:"promo_code"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
}

// OrderItem is a frozen snapshot of one purchased line.
type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	PriceCents int64     `json:"price_cents" db:"price_cents"`
	Size       string    `json:"size" db:"size"`
	Color      string    `json:"color" db:"color"`
}

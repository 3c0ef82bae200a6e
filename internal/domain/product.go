package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog. Prices are integer minor
// units (cents) so money arithmetic stays exact.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	PriceCents  int64     `json:"price_cents" db:"price_cents"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Sizes       []string  `json:"sizes" db:"sizes"`
	Colors      []string  `json:"colors" db:"colors"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

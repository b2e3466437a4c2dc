package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/v1/products.
type CreateProductRequest struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Threshold int             `json:"threshold"`
	Price     decimal.Decimal `json:"price"`
}

// UpdateProductRequest body para PUT /api/v1/products/:id.
type UpdateProductRequest struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Threshold int             `json:"threshold"`
	Price     decimal.Decimal `json:"price"`
}

// ProductResponse representación de un producto en respuestas.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Threshold int             `json:"threshold"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. Threshold es la cantidad en la que
// el stock pasa a considerarse bajo (inclusive); en cero o menos está agotado.
type Product struct {
	ID        string
	Name      string
	SKU       string // código único
	Threshold int
	Price     decimal.Decimal // precio de venta
	CreatedAt time.Time
	UpdatedAt time.Time
}

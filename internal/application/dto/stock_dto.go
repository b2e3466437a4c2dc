package dto

import "time"

// MovementLineRequest línea de un movimiento en los bodies de creación/edición.
type MovementLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateStockInRequest body para POST /api/v1/stock/in.
type CreateStockInRequest struct {
	TransactionCode string                `json:"transaction_code"`
	Date            string                `json:"date"` // RFC3339 o YYYY-MM-DD
	ToWarehouse     bool                  `json:"to_warehouse"`
	StoreID         string                `json:"store_id,omitempty"`
	Products        []MovementLineRequest `json:"products"`
}

// CreateStockOutRequest body para POST /api/v1/stock/out.
type CreateStockOutRequest struct {
	TransactionCode string                `json:"transaction_code"`
	Date            string                `json:"date"`
	StoreID         string                `json:"store_id"`
	Products        []MovementLineRequest `json:"products"`
}

// CreateStockMutationRequest body para POST /api/v1/stock/mutation.
type CreateStockMutationRequest struct {
	TransactionCode string                `json:"transaction_code"`
	Date            string                `json:"date"`
	FromWarehouse   bool                  `json:"from_warehouse"`
	FromStoreID     string                `json:"from_store_id,omitempty"`
	ToStoreID       string                `json:"to_store_id"`
	Products        []MovementLineRequest `json:"products"`
}

// UpdateMovementRequest body para PUT de cualquier variante: reemplazo completo de fecha y líneas.
type UpdateMovementRequest struct {
	Date     string                `json:"date"`
	Products []MovementLineRequest `json:"products"`
}

// MovementLineResponse línea en respuestas de movimiento.
type MovementLineResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// MovementResponse representación común de un movimiento en respuestas.
// Los campos de ruteo se omiten cuando no aplican a la variante.
type MovementResponse struct {
	ID              string                 `json:"id"`
	TransactionCode string                 `json:"transaction_code"`
	Date            time.Time              `json:"date"`
	Status          string                 `json:"status"`
	ToWarehouse     *bool                  `json:"to_warehouse,omitempty"`
	StoreID         string                 `json:"store_id,omitempty"`
	FromWarehouse   *bool                  `json:"from_warehouse,omitempty"`
	FromStoreID     string                 `json:"from_store_id,omitempty"`
	ToStoreID       string                 `json:"to_store_id,omitempty"`
	PerformedBy     string                 `json:"performed_by,omitempty"`
	Lines           []MovementLineResponse `json:"products"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// StockResponse saldo de un producto en una ubicación.
type StockResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	StoreID     string    `json:"store_id,omitempty"`
	StoreName   string    `json:"store_name,omitempty"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStockEntry producto con saldo bajo en una ubicación.
type LowStockEntry struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
}

// OutOfStockEntry producto agotado en una ubicación.
type OutOfStockEntry struct {
	ProductName string `json:"productName"`
	Location    string `json:"location"`
}

// StockNotification snapshot agregado de saldos bajos/agotados que se publica a los suscriptores.
// Length = len(LowStock) + len(OutOfStock).
type StockNotification struct {
	Length     int               `json:"length"`
	LowStock   []LowStockEntry   `json:"lowStock"`
	OutOfStock []OutOfStockEntry `json:"outOfStock"`
}

package entity

import "time"

// Estados de disponibilidad de un stock. Siempre derivados de (cantidad, umbral del producto),
// nunca se asignan de forma independiente a un cambio de cantidad.
const (
	StatusAvailable  = "available"
	StatusLowStock   = "lowStock"
	StatusOutOfStock = "outOfStock"
)

// WarehouseLabel etiqueta fija de la bodega central en las notificaciones (no es una tienda).
const WarehouseLabel = "Warehouse"

// Location identifica dónde vive un saldo de stock: la bodega central (única)
// o una de las tiendas. StoreID vacío significa bodega central.
type Location struct {
	StoreID string
}

// Warehouse devuelve la ubicación de la bodega central.
func Warehouse() Location { return Location{} }

// AtStore devuelve la ubicación de una tienda.
func AtStore(storeID string) Location { return Location{StoreID: storeID} }

// IsWarehouse indica si la ubicación es la bodega central.
func (l Location) IsWarehouse() bool { return l.StoreID == "" }

// Label devuelve el nombre visible de la ubicación dado el nombre de la tienda.
func (l Location) Label(storeName string) string {
	if l.IsWarehouse() {
		return WarehouseLabel
	}
	return storeName
}

// Stock representa el saldo actual de un producto en una ubicación (bodega o tienda).
// Invariantes: Quantity >= 0 tras todo commit y Status = clasificación de (Quantity, threshold).
// Solo el motor de verificación escribe estos registros.
type Stock struct {
	ID        string
	Location  Location
	ProductID string
	Quantity  int
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockWithRefs saldo con los datos de producto y tienda resueltos (para listados y notificaciones).
type StockWithRefs struct {
	Stock
	ProductName string
	Threshold   int
	StoreName   string // vacío para bodega central
}

package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar saldos por ubicación+producto.
// Las escrituras solo ocurren dentro de la transacción de una verificación.
type StockRepository interface {
	// Get devuelve el saldo o nil si no existe.
	Get(loc entity.Location, productID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); nil si no existe.
	// Dentro de una transacción ve las escrituras previas de la misma transacción,
	// lo que hace acumulativas las líneas repetidas de un mismo movimiento.
	GetForUpdate(loc entity.Location, productID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// ListByLocation lista los saldos de una ubicación con datos de producto resueltos.
	ListByLocation(loc entity.Location, limit, offset int) ([]*entity.StockWithRefs, error)
	// ListWithRefs recorre todos los saldos (bodega y tiendas) con nombres resueltos.
	// Base del agregador de notificaciones: reconstrucción completa, sin caché.
	ListWithRefs() ([]*entity.StockWithRefs, error)
}

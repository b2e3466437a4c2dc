package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	StockIn  repository.StockInRepository
	StockOut repository.StockOutRepository
	Mutation repository.StockMutationRepository
	Stock    repository.StockRepository
	Product  repository.ProductRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de verificación: o se aplican todos los deltas
// y el cambio de estado del movimiento, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Publisher puerto de salida hacia los suscriptores de notificaciones de stock.
// La entrega es best-effort: un fallo de publicación nunca afecta al ledger.
type Publisher interface {
	Publish(snapshot dto.StockNotification)
}

package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domaininv "github.com/jhoicas/almacen-api/internal/domain/inventory"
)

// VerifyMovementUseCase es el motor de verificación: commit de un movimiento pending
// contra los saldos. Cada verificación corre como una única transacción con bloqueo
// de fila (SELECT FOR UPDATE); los deltas de saldo y el cambio a completed se
// confirman juntos o ninguno. pending -> completed es la única transición y es terminal.
type VerifyMovementUseCase struct {
	txRunner TxRunner
	notifier *StockNotifier
}

// NewVerifyMovementUseCase construye el motor.
func NewVerifyMovementUseCase(txRunner TxRunner, notifier *StockNotifier) *VerifyMovementUseCase {
	return &VerifyMovementUseCase{txRunner: txRunner, notifier: notifier}
}

// applyDelta aplica un delta al saldo de (ubicación, producto) y reclasifica el estado.
// Si el saldo no existe: con delta positivo lo crea (primera recepción en esa ubicación),
// con delta negativo falla por insuficiencia. Nunca deja una cantidad negativa.
// GetForUpdate dentro de la transacción ve las escrituras previas del mismo commit,
// así las líneas repetidas de un producto se acumulan sobre el saldo en curso.
func applyDelta(r Repos, loc entity.Location, product *entity.Product, delta int, now time.Time) error {
	stock, err := r.Stock.GetForUpdate(loc, product.ID)
	if err != nil {
		return err
	}
	if stock == nil {
		if delta <= 0 {
			return &domain.InsufficientStockError{ProductID: product.ID, StoreID: loc.StoreID}
		}
		stock = &entity.Stock{
			ID:        uuid.New().String(),
			Location:  loc,
			ProductID: product.ID,
			CreatedAt: now,
		}
	}
	newQty := stock.Quantity + delta
	if newQty < 0 {
		return &domain.InsufficientStockError{ProductID: product.ID, StoreID: loc.StoreID}
	}
	stock.Quantity = newQty
	stock.Status = domaininv.Classify(newQty, product.Threshold)
	stock.UpdatedAt = now
	return r.Stock.Upsert(stock)
}

// resolveProduct recarga el producto de la línea; pudo haberse borrado desde la creación.
func resolveProduct(r Repos, productID string) (*entity.Product, error) {
	product, err := r.Product.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ProductNotFoundError{ProductID: productID}
	}
	return product, nil
}

// VerifyStockIn aplica una entrada: suma cada línea en el destino (bodega o tienda),
// creando el saldo si es la primera recepción del producto allí.
func (uc *VerifyMovementUseCase) VerifyStockIn(ctx context.Context, id, userID string) error {
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.StockIn.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrAlreadyVerified
		}
		now := time.Now()
		dest := m.Destination()
		for _, line := range m.Lines {
			product, err := resolveProduct(r, line.ProductID)
			if err != nil {
				return err
			}
			if err := applyDelta(r, dest, product, line.Quantity, now); err != nil {
				return err
			}
		}
		return r.StockIn.MarkCompleted(id, userID)
	})
	if err != nil {
		return err
	}
	uc.notifier.Refresh()
	return nil
}

// VerifyStockOut aplica una salida: resta cada línea del saldo de la tienda origen.
// Cualquier insuficiencia aborta el movimiento completo; la unidad de atomicidad
// es el movimiento, no la línea.
func (uc *VerifyMovementUseCase) VerifyStockOut(ctx context.Context, id, userID string) error {
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.StockOut.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrAlreadyVerified
		}
		now := time.Now()
		source := m.Source()
		for _, line := range m.Lines {
			product, err := resolveProduct(r, line.ProductID)
			if err != nil {
				return err
			}
			if err := applyDelta(r, source, product, -line.Quantity, now); err != nil {
				return err
			}
		}
		return r.StockOut.MarkCompleted(id, userID)
	})
	if err != nil {
		return err
	}
	uc.notifier.Refresh()
	return nil
}

// VerifyStockMutation aplica un traslado: resta del origen y suma en el destino,
// línea por línea en orden. El saldo destino se crea si no existe, clasificado
// solo desde la cantidad recibida. La cantidad total del producto se conserva.
func (uc *VerifyMovementUseCase) VerifyStockMutation(ctx context.Context, id, userID string) error {
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.Mutation.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrAlreadyVerified
		}
		now := time.Now()
		source := m.Source()
		dest := m.Destination()
		for _, line := range m.Lines {
			product, err := resolveProduct(r, line.ProductID)
			if err != nil {
				return err
			}
			if err := applyDelta(r, source, product, -line.Quantity, now); err != nil {
				return err
			}
			if err := applyDelta(r, dest, product, line.Quantity, now); err != nil {
				return err
			}
		}
		return r.Mutation.MarkCompleted(id, userID)
	})
	if err != nil {
		return err
	}
	uc.notifier.Refresh()
	return nil
}

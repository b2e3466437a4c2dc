package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// MovementUseCase gestiona el ciclo de vida pre-verificación de los movimientos:
// creación validada en estado pending, edición y borrado (ambos solo en pending),
// consultas y consecutivo sugerido. No toca saldos: eso es del motor de verificación.
type MovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	storeRepo    repository.StoreRepository
	stockInRepo  repository.StockInRepository
	stockOutRepo repository.StockOutRepository
	mutationRepo repository.StockMutationRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	stockInRepo repository.StockInRepository,
	stockOutRepo repository.StockOutRepository,
	mutationRepo repository.StockMutationRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		storeRepo:    storeRepo,
		stockInRepo:  stockInRepo,
		stockOutRepo: stockOutRepo,
		mutationRepo: mutationRepo,
	}
}

// checkProductsExist verifica que cada línea referencie un producto existente.
func (uc *MovementUseCase) checkProductsExist(lines []dto.MovementLineRequest) error {
	for _, l := range lines {
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.ProductNotFoundError{ProductID: l.ProductID}
		}
	}
	return nil
}

// checkStoreExists verifica que la tienda exista.
func (uc *MovementUseCase) checkStoreExists(storeID string) error {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return &domain.ValidationError{Field: "store_id", Reason: "la tienda " + storeID + " no existe"}
	}
	return nil
}

func toLines(in []dto.MovementLineRequest) []entity.MovementLine {
	lines := make([]entity.MovementLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, entity.MovementLine{
			ID:        uuid.New().String(),
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return lines
}

// CreateStockIn valida y persiste una entrada en estado pending. Devuelve el ID creado.
// La suficiencia de saldo no se comprueba aquí: se difiere a la verificación,
// porque los saldos pueden cambiar entre la creación y el commit.
func (uc *MovementUseCase) CreateStockIn(ctx context.Context, userID string, in dto.CreateStockInRequest) (string, error) {
	if err := validateStockInPayload(in); err != nil {
		return "", err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return "", err
	}
	exists, err := uc.stockInRepo.ExistsByTransactionCode(in.TransactionCode)
	if err != nil {
		return "", err
	}
	if exists {
		return "", domain.ErrDuplicateTransactionCode
	}
	if !in.ToWarehouse {
		if err := uc.checkStoreExists(in.StoreID); err != nil {
			return "", err
		}
	}
	if err := uc.checkProductsExist(in.Products); err != nil {
		return "", err
	}

	now := time.Now()
	m := &entity.StockIn{
		ID:              uuid.New().String(),
		TransactionCode: in.TransactionCode,
		Date:            date,
		Status:          entity.MovementPending,
		ToWarehouse:     in.ToWarehouse,
		StoreID:         in.StoreID,
		Lines:           toLines(in.Products),
		PerformedBy:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if m.ToWarehouse {
		m.StoreID = ""
	}
	// Movimiento y líneas se insertan en la misma transacción
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		return r.StockIn.Create(m)
	})
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// CreateStockOut valida y persiste una salida en estado pending.
func (uc *MovementUseCase) CreateStockOut(ctx context.Context, userID string, in dto.CreateStockOutRequest) (string, error) {
	if err := validateStockOutPayload(in); err != nil {
		return "", err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return "", err
	}
	exists, err := uc.stockOutRepo.ExistsByTransactionCode(in.TransactionCode)
	if err != nil {
		return "", err
	}
	if exists {
		return "", domain.ErrDuplicateTransactionCode
	}
	if err := uc.checkStoreExists(in.StoreID); err != nil {
		return "", err
	}
	if err := uc.checkProductsExist(in.Products); err != nil {
		return "", err
	}

	now := time.Now()
	m := &entity.StockOut{
		ID:              uuid.New().String(),
		TransactionCode: in.TransactionCode,
		Date:            date,
		Status:          entity.MovementPending,
		StoreID:         in.StoreID,
		Lines:           toLines(in.Products),
		PerformedBy:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		return r.StockOut.Create(m)
	})
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// CreateStockMutation valida y persiste un traslado en estado pending.
func (uc *MovementUseCase) CreateStockMutation(ctx context.Context, userID string, in dto.CreateStockMutationRequest) (string, error) {
	if err := validateStockMutationPayload(in); err != nil {
		return "", err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return "", err
	}
	exists, err := uc.mutationRepo.ExistsByTransactionCode(in.TransactionCode)
	if err != nil {
		return "", err
	}
	if exists {
		return "", domain.ErrDuplicateTransactionCode
	}
	if !in.FromWarehouse {
		if err := uc.checkStoreExists(in.FromStoreID); err != nil {
			return "", err
		}
	}
	if err := uc.checkStoreExists(in.ToStoreID); err != nil {
		return "", err
	}
	if err := uc.checkProductsExist(in.Products); err != nil {
		return "", err
	}

	now := time.Now()
	m := &entity.StockMutation{
		ID:              uuid.New().String(),
		TransactionCode: in.TransactionCode,
		Date:            date,
		Status:          entity.MovementPending,
		FromWarehouse:   in.FromWarehouse,
		FromStoreID:     in.FromStoreID,
		ToStoreID:       in.ToStoreID,
		Lines:           toLines(in.Products),
		PerformedBy:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if m.FromWarehouse {
		m.FromStoreID = ""
	}
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		return r.Mutation.Create(m)
	})
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// validateUpdate valida el body de edición (reemplazo completo de fecha y líneas).
func (uc *MovementUseCase) validateUpdate(in dto.UpdateMovementRequest) (time.Time, []entity.MovementLine, error) {
	if err := validateLines(in.Products); err != nil {
		return time.Time{}, nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return time.Time{}, nil, err
	}
	if err := uc.checkProductsExist(in.Products); err != nil {
		return time.Time{}, nil, err
	}
	return date, toLines(in.Products), nil
}

// UpdateStockIn reemplaza fecha y líneas de una entrada pending.
// Un movimiento completed es inmutable (misma política que el borrado).
func (uc *MovementUseCase) UpdateStockIn(ctx context.Context, id string, in dto.UpdateMovementRequest) error {
	date, lines, err := uc.validateUpdate(in)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.StockIn.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrMovementCompleted
		}
		return r.StockIn.Replace(id, date, lines)
	})
}

// UpdateStockOut reemplaza fecha y líneas de una salida pending.
func (uc *MovementUseCase) UpdateStockOut(ctx context.Context, id string, in dto.UpdateMovementRequest) error {
	date, lines, err := uc.validateUpdate(in)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.StockOut.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrMovementCompleted
		}
		return r.StockOut.Replace(id, date, lines)
	})
}

// UpdateStockMutation reemplaza fecha y líneas de un traslado pending.
func (uc *MovementUseCase) UpdateStockMutation(ctx context.Context, id string, in dto.UpdateMovementRequest) error {
	date, lines, err := uc.validateUpdate(in)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.Mutation.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrMovementCompleted
		}
		return r.Mutation.Replace(id, date, lines)
	})
}

// DeleteStockIn elimina una entrada pending; una completed no puede borrarse.
func (uc *MovementUseCase) DeleteStockIn(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.StockIn.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrMovementCompleted
		}
		return r.StockIn.Delete(id)
	})
}

// DeleteStockOut elimina una salida pending.
func (uc *MovementUseCase) DeleteStockOut(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.StockOut.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrMovementCompleted
		}
		return r.StockOut.Delete(id)
	})
}

// DeleteStockMutation elimina un traslado pending.
func (uc *MovementUseCase) DeleteStockMutation(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := r.Mutation.GetByID(id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.Status == entity.MovementCompleted {
			return domain.ErrMovementCompleted
		}
		return r.Mutation.Delete(id)
	})
}

// GetStockIn devuelve una entrada con sus líneas.
func (uc *MovementUseCase) GetStockIn(id string) (*entity.StockIn, error) {
	m, err := uc.stockInRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// GetStockOut devuelve una salida con sus líneas.
func (uc *MovementUseCase) GetStockOut(id string) (*entity.StockOut, error) {
	m, err := uc.stockOutRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// GetStockMutation devuelve un traslado con sus líneas.
func (uc *MovementUseCase) GetStockMutation(id string) (*entity.StockMutation, error) {
	m, err := uc.mutationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListStockIn lista entradas (paginación simple).
func (uc *MovementUseCase) ListStockIn(limit, offset int) ([]*entity.StockIn, error) {
	return uc.stockInRepo.List(limit, offset)
}

// ListStockOut lista salidas.
func (uc *MovementUseCase) ListStockOut(limit, offset int) ([]*entity.StockOut, error) {
	return uc.stockOutRepo.List(limit, offset)
}

// ListStockMutation lista traslados.
func (uc *MovementUseCase) ListStockMutation(limit, offset int) ([]*entity.StockMutation, error) {
	return uc.mutationRepo.List(limit, offset)
}

// NextCodeStockIn consecutivo sugerido para la próxima entrada.
func (uc *MovementUseCase) NextCodeStockIn() (int, error) { return uc.stockInRepo.NextCode() }

// NextCodeStockOut consecutivo sugerido para la próxima salida.
func (uc *MovementUseCase) NextCodeStockOut() (int, error) { return uc.stockOutRepo.NextCode() }

// NextCodeStockMutation consecutivo sugerido para el próximo traslado.
func (uc *MovementUseCase) NextCodeStockMutation() (int, error) { return uc.mutationRepo.NextCode() }

package usecase

import (
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockUseCase consultas de solo lectura sobre saldos. Las escrituras son
// exclusivas del motor de verificación.
type StockUseCase struct {
	repo repository.StockRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockRepository) *StockUseCase {
	return &StockUseCase{repo: repo}
}

// ListWarehouse lista los saldos de la bodega central.
func (uc *StockUseCase) ListWarehouse(limit, offset int) ([]*dto.StockResponse, error) {
	stocks, err := uc.repo.ListByLocation(entity.Warehouse(), limit, offset)
	if err != nil {
		return nil, err
	}
	return toStockResponses(stocks), nil
}

// ListStore lista los saldos de una tienda.
func (uc *StockUseCase) ListStore(storeID string, limit, offset int) ([]*dto.StockResponse, error) {
	stocks, err := uc.repo.ListByLocation(entity.AtStore(storeID), limit, offset)
	if err != nil {
		return nil, err
	}
	return toStockResponses(stocks), nil
}

func toStockResponses(stocks []*entity.StockWithRefs) []*dto.StockResponse {
	out := make([]*dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, &dto.StockResponse{
			ID:          s.ID,
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			StoreID:     s.Location.StoreID,
			StoreName:   s.StoreName,
			Quantity:    s.Quantity,
			Status:      s.Status,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return out
}

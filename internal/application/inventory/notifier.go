package inventory

import (
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/rs/zerolog/log"
)

// StockNotifier agrega los saldos bajos/agotados y publica el snapshot a los suscriptores.
// Es una reconstrucción completa en cada llamada (sin estado entre llamadas): a esta
// escala de tabla de saldos, la corrección bajo movimientos concurrentes pesa más que
// el costo de recomputar.
type StockNotifier struct {
	stockRepo repository.StockRepository
	publisher Publisher
}

// NewStockNotifier construye el agregador. El publisher se inyecta en el arranque.
func NewStockNotifier(stockRepo repository.StockRepository, publisher Publisher) *StockNotifier {
	return &StockNotifier{stockRepo: stockRepo, publisher: publisher}
}

// Snapshot recorre todos los saldos (tiendas y bodega central) y clasifica los marcados.
// Los saldos de bodega llevan la etiqueta fija de bodega, no un nombre de tienda.
func (n *StockNotifier) Snapshot() (dto.StockNotification, error) {
	snap := dto.StockNotification{
		LowStock:   []dto.LowStockEntry{},
		OutOfStock: []dto.OutOfStockEntry{},
	}
	stocks, err := n.stockRepo.ListWithRefs()
	if err != nil {
		return snap, err
	}
	for _, s := range stocks {
		location := s.Location.Label(s.StoreName)
		switch s.Status {
		case entity.StatusOutOfStock:
			snap.OutOfStock = append(snap.OutOfStock, dto.OutOfStockEntry{
				ProductName: s.ProductName,
				Location:    location,
			})
			snap.Length++
		case entity.StatusLowStock:
			snap.LowStock = append(snap.LowStock, dto.LowStockEntry{
				ProductName: s.ProductName,
				Quantity:    s.Quantity,
				Location:    location,
			})
			snap.Length++
		}
	}
	return snap, nil
}

// Refresh recomputa y publica exactamente un snapshot. Best-effort: un fallo aquí
// no revierte la verificación que lo disparó.
func (n *StockNotifier) Refresh() {
	if n.publisher == nil {
		return
	}
	snap, err := n.Snapshot()
	if err != nil {
		log.Warn().Err(err).Msg("recomputar notificación de stock")
		return
	}
	n.publisher.Publish(snap)
}

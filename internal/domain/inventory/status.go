package inventory

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// Classify deriva el estado de disponibilidad a partir de cantidad y umbral.
// Función pura y total; ambos límites son inclusivos: cantidad == umbral es lowStock.
func Classify(quantity, threshold int) string {
	if quantity <= 0 {
		return entity.StatusOutOfStock
	}
	if quantity <= threshold {
		return entity.StatusLowStock
	}
	return entity.StatusAvailable
}

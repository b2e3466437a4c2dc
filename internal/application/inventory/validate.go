package inventory

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// parseDate acepta RFC3339 o fecha simple (YYYY-MM-DD).
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &domain.ValidationError{Field: "date", Reason: "requerido"}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "date", Reason: "formato inválido"}
	}
	return t, nil
}

// validateLines exige al menos una línea, producto presente y cantidad > 0 en cada una.
func validateLines(lines []dto.MovementLineRequest) error {
	if len(lines) == 0 {
		return &domain.ValidationError{Field: "products", Reason: "se requiere al menos una línea"}
	}
	for _, l := range lines {
		if l.ProductID == "" {
			return &domain.ValidationError{Field: "products.product_id", Reason: "requerido"}
		}
		if l.Quantity <= 0 {
			return &domain.ValidationError{Field: "products.quantity", Reason: "debe ser mayor que cero para el producto " + l.ProductID}
		}
	}
	return nil
}

// validateStockInPayload valida estructura y ruteo de una entrada.
func validateStockInPayload(in dto.CreateStockInRequest) error {
	if in.TransactionCode == "" {
		return &domain.ValidationError{Field: "transaction_code", Reason: "requerido"}
	}
	if !in.ToWarehouse && in.StoreID == "" {
		return &domain.ValidationError{Field: "store_id", Reason: "requerido cuando la entrada no va a bodega"}
	}
	return validateLines(in.Products)
}

// validateStockOutPayload valida estructura y ruteo de una salida.
func validateStockOutPayload(in dto.CreateStockOutRequest) error {
	if in.TransactionCode == "" {
		return &domain.ValidationError{Field: "transaction_code", Reason: "requerido"}
	}
	if in.StoreID == "" {
		return &domain.ValidationError{Field: "store_id", Reason: "requerido"}
	}
	return validateLines(in.Products)
}

// validateStockMutationPayload valida estructura y ruteo de un traslado.
func validateStockMutationPayload(in dto.CreateStockMutationRequest) error {
	if in.TransactionCode == "" {
		return &domain.ValidationError{Field: "transaction_code", Reason: "requerido"}
	}
	if !in.FromWarehouse && in.FromStoreID == "" {
		return &domain.ValidationError{Field: "from_store_id", Reason: "requerido cuando el origen no es bodega"}
	}
	if in.ToStoreID == "" {
		return &domain.ValidationError{Field: "to_store_id", Reason: "requerido"}
	}
	return validateLines(in.Products)
}

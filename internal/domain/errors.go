package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrUserNotFound             = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists       = errors.New("el email ya está registrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrDuplicateTransactionCode = errors.New("código de transacción duplicado")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrAlreadyVerified          = errors.New("movimiento ya verificado")
	ErrMovementCompleted        = errors.New("movimiento completado es inmutable")
)

// ValidationError nombra el campo ofensivo de una petición rechazada.
// errors.Is(err, ErrInvalidInput) es verdadero para este tipo.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ProductNotFoundError identifica el producto inexistente referenciado por una línea.
// errors.Is(err, ErrNotFound) es verdadero para este tipo.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("el producto %s no existe", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError identifica producto y ubicación de un saldo insuficiente.
// StoreID vacío significa bodega central. errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID string
	StoreID   string
}

func (e *InsufficientStockError) Error() string {
	if e.StoreID == "" {
		return fmt.Sprintf("stock insuficiente en bodega para el producto %s", e.ProductID)
	}
	return fmt.Sprintf("stock insuficiente para el producto %s en la tienda %s", e.ProductID, e.StoreID)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

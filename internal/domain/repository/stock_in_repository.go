package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockInRepository define el puerto de persistencia para entradas de mercancía.
type StockInRepository interface {
	// Create persiste el movimiento y sus líneas (atómico bajo la transacción del caller).
	Create(m *entity.StockIn) error
	// GetByID devuelve el movimiento con sus líneas, o nil si no existe.
	GetByID(id string) (*entity.StockIn, error)
	ExistsByTransactionCode(code string) (bool, error)
	// MarkCompleted fija status=completed y registra el usuario verificador.
	MarkCompleted(id, userID string) error
	// Replace sustituye fecha y líneas completas del movimiento.
	Replace(id string, date time.Time, lines []entity.MovementLine) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.StockIn, error)
	// NextCode devuelve el siguiente consecutivo para sugerir el código de transacción.
	NextCode() (int, error)
}

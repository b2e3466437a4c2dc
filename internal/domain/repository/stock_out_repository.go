package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockOutRepository define el puerto de persistencia para salidas de mercancía.
type StockOutRepository interface {
	Create(m *entity.StockOut) error
	GetByID(id string) (*entity.StockOut, error)
	ExistsByTransactionCode(code string) (bool, error)
	MarkCompleted(id, userID string) error
	Replace(id string, date time.Time, lines []entity.MovementLine) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.StockOut, error)
	NextCode() (int, error)
}

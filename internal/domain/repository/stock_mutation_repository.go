package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockMutationRepository define el puerto de persistencia para traslados entre ubicaciones.
type StockMutationRepository interface {
	Create(m *entity.StockMutation) error
	GetByID(id string) (*entity.StockMutation, error)
	ExistsByTransactionCode(code string) (bool, error)
	MarkCompleted(id, userID string) error
	Replace(id string, date time.Time, lines []entity.MovementLine) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.StockMutation, error)
	NextCode() (int, error)
}

package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// StoreRepository define el puerto de persistencia para Store (DIP).
type StoreRepository interface {
	Create(store *entity.Store) error
	// GetByID devuelve la tienda o nil si no existe.
	GetByID(id string) (*entity.Store, error)
	Update(store *entity.Store) error
	List(limit, offset int) ([]*entity.Store, error)
	Delete(id string) error
}

package entity

import "time"

// Store representa una tienda donde se mantiene inventario (además de la bodega central).
type Store struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package dto

import "time"

// CreateStoreRequest body para POST /api/v1/stores.
type CreateStoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// StoreResponse representación de una tienda en respuestas.
type StoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// store_id NULL representa la bodega central.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo de un producto en una ubicación, o nil si no existe.
func (r *StockRepo) Get(loc entity.Location, productID string) (*entity.Stock, error) {
	query := `
		SELECT id, store_id, product_id, quantity, status, created_at, updated_at
		FROM stocks
		WHERE product_id = $1 AND store_id IS NOT DISTINCT FROM $2`
	return r.scanOne(query, productID, storeParam(loc.StoreID))
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE); nil si no existe.
func (r *StockRepo) GetForUpdate(loc entity.Location, productID string) (*entity.Stock, error) {
	query := `
		SELECT id, store_id, product_id, quantity, status, created_at, updated_at
		FROM stocks
		WHERE product_id = $1 AND store_id IS NOT DISTINCT FROM $2
		FOR UPDATE`
	return r.scanOne(query, productID, storeParam(loc.StoreID))
}

func (r *StockRepo) scanOne(query string, args ...any) (*entity.Stock, error) {
	var s entity.Stock
	var storeID *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &storeID, &s.ProductID, &s.Quantity, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	if storeID != nil {
		s.Location = entity.AtStore(*storeID)
	}
	return &s, nil
}

// Upsert inserta o actualiza un saldo (por producto y ubicación).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (id, store_id, product_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (product_id, COALESCE(store_id, ''))
		DO UPDATE SET quantity = EXCLUDED.quantity, status = EXCLUDED.status, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, storeParam(stock.Location.StoreID), stock.ProductID, stock.Quantity, stock.Status)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

const stockWithRefsSelect = `
	SELECT s.id, s.store_id, s.product_id, s.quantity, s.status, s.created_at, s.updated_at,
	       p.name, p.threshold, COALESCE(st.name, '')
	FROM stocks s
	JOIN products p ON p.id = s.product_id
	LEFT JOIN stores st ON st.id = s.store_id`

// ListByLocation lista los saldos de una ubicación con nombre de producto resuelto.
func (r *StockRepo) ListByLocation(loc entity.Location, limit, offset int) ([]*entity.StockWithRefs, error) {
	query := stockWithRefsSelect + `
	WHERE s.store_id IS NOT DISTINCT FROM $1
	ORDER BY p.name
	LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeParam(loc.StoreID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	return scanStocksWithRefs(rows)
}

// ListWithRefs recorre todos los saldos (bodega central y tiendas) con nombres resueltos.
func (r *StockRepo) ListWithRefs() ([]*entity.StockWithRefs, error) {
	query := stockWithRefsSelect + `
	ORDER BY st.name NULLS FIRST, p.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stocks with refs: %w", err)
	}
	defer rows.Close()
	return scanStocksWithRefs(rows)
}

func scanStocksWithRefs(rows pgx.Rows) ([]*entity.StockWithRefs, error) {
	var out []*entity.StockWithRefs
	for rows.Next() {
		var s entity.StockWithRefs
		var storeID *string
		if err := rows.Scan(
			&s.ID, &storeID, &s.ProductID, &s.Quantity, &s.Status, &s.CreatedAt, &s.UpdatedAt,
			&s.ProductName, &s.Threshold, &s.StoreName,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		if storeID != nil {
			s.Location = entity.AtStore(*storeID)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockInRepository = (*StockInRepo)(nil)

// StockInRepo implementación de StockInRepository sobre PostgreSQL.
type StockInRepo struct {
	q Querier
}

// NewStockInRepository construye el adaptador de entradas. Pasar pool o tx (Querier).
func NewStockInRepository(q Querier) *StockInRepo {
	return &StockInRepo{q: q}
}

// Create persiste la entrada y sus líneas.
func (r *StockInRepo) Create(m *entity.StockIn) error {
	query := `
		INSERT INTO stock_ins (id, transaction_code, date, status, to_warehouse, store_id, performed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TransactionCode, m.Date, m.Status, m.ToWarehouse, storeParam(m.StoreID), m.PerformedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransactionCode
		}
		return fmt.Errorf("create stock in: %w", err)
	}
	return insertMovementLines(r.q, "stock_in_lines", "stock_in_id", m.ID, m.Lines)
}

// GetByID devuelve la entrada con sus líneas, o nil si no existe.
func (r *StockInRepo) GetByID(id string) (*entity.StockIn, error) {
	query := `
		SELECT id, transaction_code, date, status, to_warehouse, store_id, performed_by, created_at, updated_at
		FROM stock_ins WHERE id = $1`
	m, err := scanStockIn(r.q.QueryRow(context.Background(), query, id))
	if err != nil || m == nil {
		return m, err
	}
	m.Lines, err = loadMovementLines(r.q, "stock_in_lines", "stock_in_id", m.ID)
	return m, err
}

func (r *StockInRepo) ExistsByTransactionCode(code string) (bool, error) {
	return movementExistsByCode(r.q, "stock_ins", code)
}

func (r *StockInRepo) MarkCompleted(id, userID string) error {
	return markMovementCompleted(r.q, "stock_ins", id, userID)
}

func (r *StockInRepo) Replace(id string, date time.Time, lines []entity.MovementLine) error {
	return replaceMovement(r.q, "stock_ins", "stock_in_lines", "stock_in_id", id, date, lines)
}

func (r *StockInRepo) Delete(id string) error {
	return deleteMovement(r.q, "stock_ins", id)
}

// List lista entradas (más recientes primero) con sus líneas.
func (r *StockInRepo) List(limit, offset int) ([]*entity.StockIn, error) {
	query := `
		SELECT id, transaction_code, date, status, to_warehouse, store_id, performed_by, created_at, updated_at
		FROM stock_ins ORDER BY date DESC, created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock ins: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockIn
	for rows.Next() {
		m, err := scanStockIn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range out {
		if m.Lines, err = loadMovementLines(r.q, "stock_in_lines", "stock_in_id", m.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *StockInRepo) NextCode() (int, error) {
	return nextMovementCode(r.q, "stock_ins")
}

func scanStockIn(row pgx.Row) (*entity.StockIn, error) {
	var m entity.StockIn
	var storeID *string
	err := row.Scan(&m.ID, &m.TransactionCode, &m.Date, &m.Status, &m.ToWarehouse, &storeID,
		&m.PerformedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock in: %w", err)
	}
	if storeID != nil {
		m.StoreID = *storeID
	}
	return &m, nil
}

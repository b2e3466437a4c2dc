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

var _ repository.StockOutRepository = (*StockOutRepo)(nil)

// StockOutRepo implementación de StockOutRepository sobre PostgreSQL.
type StockOutRepo struct {
	q Querier
}

// NewStockOutRepository construye el adaptador de salidas. Pasar pool o tx (Querier).
func NewStockOutRepository(q Querier) *StockOutRepo {
	return &StockOutRepo{q: q}
}

// Create persiste la salida y sus líneas.
func (r *StockOutRepo) Create(m *entity.StockOut) error {
	query := `
		INSERT INTO stock_outs (id, transaction_code, date, status, store_id, performed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TransactionCode, m.Date, m.Status, m.StoreID, m.PerformedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransactionCode
		}
		return fmt.Errorf("create stock out: %w", err)
	}
	return insertMovementLines(r.q, "stock_out_lines", "stock_out_id", m.ID, m.Lines)
}

// GetByID devuelve la salida con sus líneas, o nil si no existe.
func (r *StockOutRepo) GetByID(id string) (*entity.StockOut, error) {
	query := `
		SELECT id, transaction_code, date, status, store_id, performed_by, created_at, updated_at
		FROM stock_outs WHERE id = $1`
	m, err := scanStockOut(r.q.QueryRow(context.Background(), query, id))
	if err != nil || m == nil {
		return m, err
	}
	m.Lines, err = loadMovementLines(r.q, "stock_out_lines", "stock_out_id", m.ID)
	return m, err
}

func (r *StockOutRepo) ExistsByTransactionCode(code string) (bool, error) {
	return movementExistsByCode(r.q, "stock_outs", code)
}

func (r *StockOutRepo) MarkCompleted(id, userID string) error {
	return markMovementCompleted(r.q, "stock_outs", id, userID)
}

func (r *StockOutRepo) Replace(id string, date time.Time, lines []entity.MovementLine) error {
	return replaceMovement(r.q, "stock_outs", "stock_out_lines", "stock_out_id", id, date, lines)
}

func (r *StockOutRepo) Delete(id string) error {
	return deleteMovement(r.q, "stock_outs", id)
}

// List lista salidas (más recientes primero) con sus líneas.
func (r *StockOutRepo) List(limit, offset int) ([]*entity.StockOut, error) {
	query := `
		SELECT id, transaction_code, date, status, store_id, performed_by, created_at, updated_at
		FROM stock_outs ORDER BY date DESC, created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock outs: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockOut
	for rows.Next() {
		m, err := scanStockOut(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range out {
		if m.Lines, err = loadMovementLines(r.q, "stock_out_lines", "stock_out_id", m.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *StockOutRepo) NextCode() (int, error) {
	return nextMovementCode(r.q, "stock_outs")
}

func scanStockOut(row pgx.Row) (*entity.StockOut, error) {
	var m entity.StockOut
	err := row.Scan(&m.ID, &m.TransactionCode, &m.Date, &m.Status, &m.StoreID,
		&m.PerformedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock out: %w", err)
	}
	return &m, nil
}

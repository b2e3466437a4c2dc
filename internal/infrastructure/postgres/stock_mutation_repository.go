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

var _ repository.StockMutationRepository = (*StockMutationRepo)(nil)

// StockMutationRepo implementación de StockMutationRepository sobre PostgreSQL.
type StockMutationRepo struct {
	q Querier
}

// NewStockMutationRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewStockMutationRepository(q Querier) *StockMutationRepo {
	return &StockMutationRepo{q: q}
}

// Create persiste el traslado y sus líneas.
func (r *StockMutationRepo) Create(m *entity.StockMutation) error {
	query := `
		INSERT INTO stock_mutations (id, transaction_code, date, status, from_warehouse, from_store_id, to_store_id, performed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TransactionCode, m.Date, m.Status, m.FromWarehouse, storeParam(m.FromStoreID), m.ToStoreID, m.PerformedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransactionCode
		}
		return fmt.Errorf("create stock mutation: %w", err)
	}
	return insertMovementLines(r.q, "stock_mutation_lines", "stock_mutation_id", m.ID, m.Lines)
}

// GetByID devuelve el traslado con sus líneas, o nil si no existe.
func (r *StockMutationRepo) GetByID(id string) (*entity.StockMutation, error) {
	query := `
		SELECT id, transaction_code, date, status, from_warehouse, from_store_id, to_store_id, performed_by, created_at, updated_at
		FROM stock_mutations WHERE id = $1`
	m, err := scanStockMutation(r.q.QueryRow(context.Background(), query, id))
	if err != nil || m == nil {
		return m, err
	}
	m.Lines, err = loadMovementLines(r.q, "stock_mutation_lines", "stock_mutation_id", m.ID)
	return m, err
}

func (r *StockMutationRepo) ExistsByTransactionCode(code string) (bool, error) {
	return movementExistsByCode(r.q, "stock_mutations", code)
}

func (r *StockMutationRepo) MarkCompleted(id, userID string) error {
	return markMovementCompleted(r.q, "stock_mutations", id, userID)
}

func (r *StockMutationRepo) Replace(id string, date time.Time, lines []entity.MovementLine) error {
	return replaceMovement(r.q, "stock_mutations", "stock_mutation_lines", "stock_mutation_id", id, date, lines)
}

func (r *StockMutationRepo) Delete(id string) error {
	return deleteMovement(r.q, "stock_mutations", id)
}

// List lista traslados (más recientes primero) con sus líneas.
func (r *StockMutationRepo) List(limit, offset int) ([]*entity.StockMutation, error) {
	query := `
		SELECT id, transaction_code, date, status, from_warehouse, from_store_id, to_store_id, performed_by, created_at, updated_at
		FROM stock_mutations ORDER BY date DESC, created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock mutations: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMutation
	for rows.Next() {
		m, err := scanStockMutation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range out {
		if m.Lines, err = loadMovementLines(r.q, "stock_mutation_lines", "stock_mutation_id", m.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *StockMutationRepo) NextCode() (int, error) {
	return nextMovementCode(r.q, "stock_mutations")
}

func scanStockMutation(row pgx.Row) (*entity.StockMutation, error) {
	var m entity.StockMutation
	var fromStoreID *string
	err := row.Scan(&m.ID, &m.TransactionCode, &m.Date, &m.Status, &m.FromWarehouse, &fromStoreID,
		&m.ToStoreID, &m.PerformedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock mutation: %w", err)
	}
	if fromStoreID != nil {
		m.FromStoreID = *fromStoreID
	}
	return &m, nil
}

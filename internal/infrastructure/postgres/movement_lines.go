package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Helpers compartidos por los tres repos de movimientos. Las tablas de líneas
// siguen el mismo esquema (id, <fk>, product_id, quantity); cambian tabla y FK.

// insertMovementLines persiste las líneas con su posición en el payload, para
// que la verificación las aplique en el orden dado.
func insertMovementLines(q Querier, table, fkCol, movementID string, lines []entity.MovementLine) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, product_id, quantity, position)
		VALUES ($1, $2, $3, $4, $5)`, table, fkCol)
	for i, line := range lines {
		id := line.ID
		if id == "" {
			id = uuid.New().String()
		}
		if _, err := q.Exec(context.Background(), query, id, movementID, line.ProductID, line.Quantity, i); err != nil {
			return fmt.Errorf("insert line: %w", err)
		}
	}
	return nil
}

func loadMovementLines(q Querier, table, fkCol, movementID string) ([]entity.MovementLine, error) {
	query := fmt.Sprintf(`
		SELECT id, product_id, quantity FROM %s
		WHERE %s = $1 ORDER BY position`, table, fkCol)
	rows, err := q.Query(context.Background(), query, movementID)
	if err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.MovementLine
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func movementExistsByCode(q Querier, table, code string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE transaction_code = $1)`, table)
	var exists bool
	if err := q.QueryRow(context.Background(), query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists by code: %w", err)
	}
	return exists, nil
}

// markMovementCompleted hace el flip pending -> completed con guard de estado.
// Bajo READ COMMITTED dos verificaciones concurrentes pueden leer el movimiento
// pending a la vez; el guard en el UPDATE garantiza que solo una gana y la otra
// revierte su transacción completa con ErrAlreadyVerified.
func markMovementCompleted(q Querier, table, id, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = $2, performed_by = $3, updated_at = now()
		WHERE id = $1 AND status = $4`, table)
	tag, err := q.Exec(context.Background(), query, id, entity.MovementCompleted, userID, entity.MovementPending)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyVerified
	}
	return nil
}

func replaceMovement(q Querier, table, linesTable, fkCol, id string, date time.Time, lines []entity.MovementLine) error {
	query := fmt.Sprintf(`UPDATE %s SET date = $2, updated_at = now() WHERE id = $1`, table)
	tag, err := q.Exec(context.Background(), query, id, date)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, linesTable, fkCol)
	if _, err := q.Exec(context.Background(), del, id); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return insertMovementLines(q, linesTable, fkCol, id, lines)
}

func deleteMovement(q Querier, table, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	tag, err := q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// nextMovementCode devuelve el siguiente consecutivo para sugerir códigos de transacción.
func nextMovementCode(q Querier, table string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) + 1 FROM %s`, table)
	var next int
	if err := q.QueryRow(context.Background(), query).Scan(&next); err != nil {
		return 0, fmt.Errorf("next code: %w", err)
	}
	return next, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). El libro es append-only: solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, material_id, kind, quantity, previous_stock, resulting_stock,
	reason, usage_type, destination, notes, created_by, created_at`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var reason, usageType, destination, notes, createdBy *string
	err := row.Scan(&m.ID, &m.MaterialID, &m.Kind, &m.Quantity, &m.PreviousStock, &m.ResultingStock,
		&reason, &usageType, &destination, &notes, &createdBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reason != nil {
		m.Reason = *reason
	}
	if usageType != nil {
		m.UsageType = *usageType
	}
	if destination != nil {
		m.Destination = *destination
	}
	if notes != nil {
		m.Notes = *notes
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create persiste una entrada del libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MaterialID, m.Kind, m.Quantity, m.PreviousStock, m.ResultingStock,
		nullable(m.Reason), nullable(m.UsageType), nullable(m.Destination), nullable(m.Notes),
		nullable(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil, nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListByMaterial lista los movimientos de un material en un rango de fechas, más reciente primero.
func (r *MovementRepo) ListByMaterial(ctx context.Context, materialID string, from, to *time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE material_id = $1`
	args := []any{materialID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY created_at DESC"
	return r.list(ctx, query, args...)
}

// ListByReason lista los ajustes con el motivo dado en un rango de fechas.
func (r *MovementRepo) ListByReason(ctx context.Context, reason string, from, to *time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE kind = $1 AND reason = $2`
	args := []any{entity.MovementKindAdjustment, reason}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY created_at DESC"
	return r.list(ctx, query, args...)
}

// ListByUsageType lista las salidas con el tipo de uso dado en un rango de fechas.
func (r *MovementRepo) ListByUsageType(ctx context.Context, usageType string, from, to *time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE kind = $1 AND usage_type = $2`
	args := []any{entity.MovementKindStockOut, usageType}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY created_at DESC"
	return r.list(ctx, query, args...)
}

// buildFilter arma el WHERE dinámico compartido por ListPaginated y su COUNT.
// La búsqueda libre entra por el JOIN con materials (código/nombre) y por
// notas/destino del propio movimiento.
func buildFilter(f repository.MovementFilter) (where string, args []any) {
	where = " WHERE 1=1"
	pos := 1
	add := func(cond string, val any) {
		where += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if f.Kind != "" {
		add("sm.kind = $%d", f.Kind)
	}
	if f.MaterialID != "" {
		add("sm.material_id = $%d", f.MaterialID)
	}
	if f.Reason != "" {
		add("sm.reason = $%d", f.Reason)
	}
	if f.UsageType != "" {
		add("sm.usage_type = $%d", f.UsageType)
	}
	if f.From != nil {
		add("sm.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("sm.created_at <= $%d", *f.To)
	}
	if f.Q != "" {
		where += fmt.Sprintf(" AND (m.name ILIKE $%d OR m.code ILIKE $%d OR sm.notes ILIKE $%d OR sm.destination ILIKE $%d)",
			pos, pos, pos, pos)
		args = append(args, "%"+f.Q+"%")
		pos++
	}
	return where, args
}

// ListPaginated devuelve una página del libro y el total de filas que cumplen el filtro.
func (r *MovementRepo) ListPaginated(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int64, error) {
	where, args := buildFilter(f)
	base := ` FROM stock_movements sm LEFT JOIN materials m ON m.id = sm.material_id` + where

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT sm.id, sm.material_id, sm.kind, sm.quantity, sm.previous_stock, sm.resulting_stock,
		sm.reason, sm.usage_type, sm.destination, sm.notes, sm.created_by, sm.created_at` + base +
		fmt.Sprintf(" ORDER BY sm.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	items, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Stats agrega conteo y suma de cantidades por kind y motivo/tipo de uso.
func (r *MovementRepo) Stats(ctx context.Context, from, to *time.Time) ([]repository.MovementStat, error) {
	query := `
		SELECT kind,
		       COALESCE(reason, usage_type, '') AS label,
		       COUNT(*)                         AS count,
		       COALESCE(SUM(quantity), 0)       AS total_quantity
		FROM stock_movements
		WHERE 1=1`
	var args []any
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += `
		GROUP BY kind, COALESCE(reason, usage_type, '')
		ORDER BY kind, count DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("movement stats: %w", err)
	}
	defer rows.Close()
	var stats []repository.MovementStat
	for rows.Next() {
		var s repository.MovementStat
		if err := rows.Scan(&s.Kind, &s.Label, &s.Count, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Report devuelve los movimientos del período con material y actor resueltos,
// más reciente primero. Los JOIN son LEFT por si el usuario fue eliminado.
func (r *MovementRepo) Report(ctx context.Context, from, to time.Time) ([]repository.ReportRow, error) {
	query := `
		SELECT sm.id, sm.material_id, sm.kind, sm.quantity, sm.previous_stock, sm.resulting_stock,
		       sm.reason, sm.usage_type, sm.destination, sm.notes, sm.created_by, sm.created_at,
		       COALESCE(m.code, ''), COALESCE(m.name, ''), COALESCE(u.name, '')
		FROM stock_movements sm
		LEFT JOIN materials m ON m.id = sm.material_id
		LEFT JOIN users u ON u.id = sm.created_by
		WHERE sm.created_at BETWEEN $1 AND $2
		ORDER BY sm.created_at DESC`

	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("movement report: %w", err)
	}
	defer rows.Close()
	var report []repository.ReportRow
	for rows.Next() {
		var row repository.ReportRow
		var reason, usageType, destination, notes, createdBy *string
		if err := rows.Scan(
			&row.Movement.ID, &row.Movement.MaterialID, &row.Movement.Kind,
			&row.Movement.Quantity, &row.Movement.PreviousStock, &row.Movement.ResultingStock,
			&reason, &usageType, &destination, &notes, &createdBy, &row.Movement.CreatedAt,
			&row.MaterialCode, &row.MaterialName, &row.ActorName,
		); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		if reason != nil {
			row.Movement.Reason = *reason
		}
		if usageType != nil {
			row.Movement.UsageType = *usageType
		}
		if destination != nil {
			row.Movement.Destination = *destination
		}
		if notes != nil {
			row.Movement.Notes = *notes
		}
		if createdBy != nil {
			row.Movement.CreatedBy = *createdBy
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

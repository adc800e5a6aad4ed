package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo sink de auditoría sobre PostgreSQL (insert-only).
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador de auditoría.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Insert persiste un registro de actividad.
func (r *ActivityLogRepo) Insert(ctx context.Context, log *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, user_id, action, entity_type, entity_id, description, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		log.ID, nullable(log.UserID), log.Action, log.EntityType, nullable(log.EntityID),
		log.Description, nullable(log.IPAddress), nullable(log.UserAgent), log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// ActivityLogRepository define el puerto del sink de auditoría (insert-only).
type ActivityLogRepository interface {
	Insert(ctx context.Context, log *entity.ActivityLog) error
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// MovementFilter filtros opcionales para el listado paginado del libro.
// Q busca texto libre en código/nombre de material, notas y destino.
type MovementFilter struct {
	Kind       string
	MaterialID string
	Reason     string
	UsageType  string
	From       *time.Time
	To         *time.Time
	Q          string
}

// MovementStat una fila agregada por motivo/tipo de uso.
type MovementStat struct {
	Kind          string
	Label         string // reason (ajustes) o usage_type (salidas)
	Count         int64
	TotalQuantity decimal.Decimal
}

// ReportRow fila del reporte: movimiento + datos de material y actor.
type ReportRow struct {
	Movement     entity.Movement
	MaterialCode string
	MaterialName string
	ActorName    string
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListByMaterial(ctx context.Context, materialID string, from, to *time.Time) ([]*entity.Movement, error)
	ListByReason(ctx context.Context, reason string, from, to *time.Time) ([]*entity.Movement, error)
	ListByUsageType(ctx context.Context, usageType string, from, to *time.Time) ([]*entity.Movement, error)
	ListPaginated(ctx context.Context, f MovementFilter, limit, offset int) ([]*entity.Movement, int64, error)
	Stats(ctx context.Context, from, to *time.Time) ([]MovementStat, error)
	Report(ctx context.Context, from, to time.Time) ([]ReportRow, error)
}

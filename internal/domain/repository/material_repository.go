package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia del registro de materiales.
// UpdateStock solo debe invocarse dentro de la transacción del motor de
// movimientos, después de GetForUpdate sobre la misma fila.
type MaterialRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetForUpdate obtiene el material bloqueando la fila (SELECT ... FOR UPDATE).
	// Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	UpdateStock(ctx context.Context, id string, quantity decimal.Decimal, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]*entity.Material, error)
}

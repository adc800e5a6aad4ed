package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// StockMutationUseCase es el motor transaccional de movimientos de stock:
// ajustes a valor absoluto y salidas por uso. Cada mutación bloquea la fila
// del material (SELECT FOR UPDATE) y escribe libro + registro con Commit o
// Rollback, así dos mutaciones concurrentes sobre el mismo material quedan
// serializadas y el delta siempre se calcula contra el saldo real.
type StockMutationUseCase struct {
	txRunner TxRunner
}

// NewStockMutationUseCase construye el caso de uso.
func NewStockMutationUseCase(txRunner TxRunner) *StockMutationUseCase {
	return &StockMutationUseCase{txRunner: txRunner}
}

// AdjustmentInput entrada para un ajuste: fija el stock a un valor absoluto.
type AdjustmentInput struct {
	MaterialID string
	NewStock   *decimal.Decimal
	Reason     string
	Notes      string
	ActorID    string
}

// StockOutInput entrada para una salida: descuenta una cantidad relativa.
type StockOutInput struct {
	MaterialID  string
	Quantity    *decimal.Decimal
	UsageType   string
	Destination string
	Notes       string
	ActorID     string
}

// ApplyAdjustment valida la entrada, bloquea la fila del material, calcula el
// delta new_stock - stock_actual y persiste movimiento + stock en una sola
// transacción. Devuelve el movimiento confirmado.
func (uc *StockMutationUseCase) ApplyAdjustment(ctx context.Context, in AdjustmentInput) (*entity.Movement, error) {
	verr := &domain.ValidationError{}
	if in.MaterialID == "" {
		verr.Add("material_id", "material_id es obligatorio")
	}
	if in.NewStock == nil {
		verr.Add("new_stock", "new_stock es obligatorio")
	} else if in.NewStock.IsNegative() {
		verr.Add("new_stock", "new_stock no puede ser negativo")
	}
	if !entity.ValidAdjustmentReason(in.Reason) {
		verr.Add("reason", "reason debe ser uno de: damage, correction, recount, lost, other")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	now := time.Now()
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		materialRepo repository.MaterialRepository,
	) error {
		// Bloquea la fila del material; verifica existencia sobre la fila bloqueada
		material, err := materialRepo.GetForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrMaterialNotFound
		}
		newStock := *in.NewStock
		delta := newStock.Sub(material.CurrentStock)

		if err := materialRepo.UpdateStock(ctx, material.ID, newStock, now); err != nil {
			return err
		}
		mov = &entity.Movement{
			ID:             uuid.New().String(),
			MaterialID:     material.ID,
			Kind:           entity.MovementKindAdjustment,
			Quantity:       delta,
			PreviousStock:  material.CurrentStock,
			ResultingStock: newStock,
			Reason:         in.Reason,
			Notes:          in.Notes,
			CreatedBy:      in.ActorID,
			CreatedAt:      now,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ApplyStockOut valida la entrada, bloquea la fila del material y descuenta la
// cantidad si hay saldo suficiente. La verificación y el descuento ocurren en
// la misma transacción: ninguna otra mutación puede colarse entre ambos.
func (uc *StockMutationUseCase) ApplyStockOut(ctx context.Context, in StockOutInput) (*entity.Movement, error) {
	verr := &domain.ValidationError{}
	if in.MaterialID == "" {
		verr.Add("material_id", "material_id es obligatorio")
	}
	if in.Quantity == nil {
		verr.Add("quantity", "quantity es obligatorio")
	} else if !in.Quantity.IsPositive() {
		verr.Add("quantity", "quantity debe ser mayor que cero")
	}
	if !entity.ValidUsageType(in.UsageType) {
		verr.Add("usage_type", "usage_type debe ser uno de: production, sale, waste, transfer, other")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	now := time.Now()
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		materialRepo repository.MaterialRepository,
	) error {
		material, err := materialRepo.GetForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return domain.ErrMaterialNotFound
		}
		qty := *in.Quantity
		if material.CurrentStock.LessThan(qty) {
			return domain.ErrInsufficientStock
		}
		resulting := material.CurrentStock.Sub(qty)

		if err := materialRepo.UpdateStock(ctx, material.ID, resulting, now); err != nil {
			return err
		}
		mov = &entity.Movement{
			ID:             uuid.New().String(),
			MaterialID:     material.ID,
			Kind:           entity.MovementKindStockOut,
			Quantity:       qty.Neg(),
			PreviousStock:  material.CurrentStock,
			ResultingStock: resulting,
			UsageType:      in.UsageType,
			Destination:    in.Destination,
			Notes:          in.Notes,
			CreatedBy:      in.ActorID,
			CreatedAt:      now,
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// Límites de paginación del libro.
const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// LedgerQueryUseCase lado de lectura del libro de movimientos: listados
// paginados, consultas por material/motivo/uso, estadísticas y reporte.
type LedgerQueryUseCase struct {
	movRepo      repository.MovementRepository
	materialRepo repository.MaterialRepository
}

// NewLedgerQueryUseCase construye el caso de uso de consultas.
func NewLedgerQueryUseCase(movRepo repository.MovementRepository, materialRepo repository.MaterialRepository) *LedgerQueryUseCase {
	return &LedgerQueryUseCase{movRepo: movRepo, materialRepo: materialRepo}
}

// clampPage normaliza page y per_page: page mínimo 1; per_page <=0 usa el
// default y >100 se recorta al máximo.
func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// List devuelve una página del libro filtrada por kind (vacío = todos),
// material, motivo/uso, rango de fechas y texto libre.
func (uc *LedgerQueryUseCase) List(ctx context.Context, kind string, q dto.MovementListQuery) (*dto.PagedMovementsResponse, error) {
	page, perPage := clampPage(q.Page, q.PerPage)

	from, to, err := parseDateRange(q.StartDate, q.EndDate, false)
	if err != nil {
		return nil, err
	}
	if q.Reason != "" && !entity.ValidAdjustmentReason(q.Reason) {
		return nil, domain.NewValidationError("reason", "motivo desconocido")
	}
	if q.UsageType != "" && !entity.ValidUsageType(q.UsageType) {
		return nil, domain.NewValidationError("usage_type", "tipo de uso desconocido")
	}

	filter := repository.MovementFilter{
		Kind:       kind,
		MaterialID: q.MaterialID,
		Reason:     q.Reason,
		UsageType:  q.UsageType,
		From:       from,
		To:         to,
		Q:          q.Q,
	}
	items, total, err := uc.movRepo.ListPaginated(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return &dto.PagedMovementsResponse{
		Items:       dto.ToMovementResponses(items),
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}, nil
}

// GetByID devuelve un movimiento o ErrMovementNotFound.
func (uc *LedgerQueryUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "id es obligatorio")
	}
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}
	resp := dto.ToMovementResponse(mov)
	return &resp, nil
}

// ListByMaterial devuelve los movimientos de un material, más reciente primero.
// El rango de fechas es opcional pero debe venir completo.
func (uc *LedgerQueryUseCase) ListByMaterial(ctx context.Context, materialID, start, end string) ([]dto.MovementResponse, error) {
	if materialID == "" {
		return nil, domain.NewValidationError("material_id", "material_id es obligatorio")
	}
	from, to, err := parseDateRange(start, end, false)
	if err != nil {
		return nil, err
	}
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrMaterialNotFound
	}
	list, err := uc.movRepo.ListByMaterial(ctx, materialID, from, to)
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponses(list), nil
}

// ListByReason devuelve los ajustes con el motivo dado.
func (uc *LedgerQueryUseCase) ListByReason(ctx context.Context, reason, start, end string) ([]dto.MovementResponse, error) {
	if !entity.ValidAdjustmentReason(reason) {
		return nil, domain.NewValidationError("reason", "motivo desconocido")
	}
	from, to, err := parseDateRange(start, end, false)
	if err != nil {
		return nil, err
	}
	list, err := uc.movRepo.ListByReason(ctx, reason, from, to)
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponses(list), nil
}

// ListByUsageType devuelve las salidas con el tipo de uso dado.
func (uc *LedgerQueryUseCase) ListByUsageType(ctx context.Context, usageType, start, end string) ([]dto.MovementResponse, error) {
	if !entity.ValidUsageType(usageType) {
		return nil, domain.NewValidationError("usage_type", "tipo de uso desconocido")
	}
	from, to, err := parseDateRange(start, end, false)
	if err != nil {
		return nil, err
	}
	list, err := uc.movRepo.ListByUsageType(ctx, usageType, from, to)
	if err != nil {
		return nil, err
	}
	return dto.ToMovementResponses(list), nil
}

// Stats agrega conteos y sumas por motivo y tipo de uso, con totales por kind.
func (uc *LedgerQueryUseCase) Stats(ctx context.Context, start, end string) (*dto.StatsResponse, error) {
	from, to, err := parseDateRange(start, end, false)
	if err != nil {
		return nil, err
	}
	rows, err := uc.movRepo.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := &dto.StatsResponse{
		ByReason:    []dto.StatBucket{},
		ByUsageType: []dto.StatBucket{},
		QuantityOut: decimal.Zero,
	}
	for _, r := range rows {
		bucket := dto.StatBucket{Label: r.Label, Count: r.Count, TotalQuantity: r.TotalQuantity}
		resp.TotalMovements += r.Count
		switch r.Kind {
		case entity.MovementKindAdjustment:
			resp.TotalAdjustments += r.Count
			resp.ByReason = append(resp.ByReason, bucket)
		case entity.MovementKindStockOut:
			resp.TotalStockOuts += r.Count
			// las salidas se guardan con delta negativo
			resp.QuantityOut = resp.QuantityOut.Add(r.TotalQuantity.Abs())
			resp.ByUsageType = append(resp.ByUsageType, bucket)
		}
	}
	return resp, nil
}

// Report devuelve las filas del período con material y actor resueltos.
// Ambos límites del rango son obligatorios.
func (uc *LedgerQueryUseCase) Report(ctx context.Context, start, end string) (*dto.ReportResponse, error) {
	from, to, err := parseDateRange(start, end, true)
	if err != nil {
		return nil, err
	}
	rows, err := uc.movRepo.Report(ctx, *from, *to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToReportRowResponse(r))
	}
	return &dto.ReportResponse{
		Rows:   out,
		Period: dto.ReportPeriod{Start: start, End: end},
		Total:  len(out),
	}, nil
}

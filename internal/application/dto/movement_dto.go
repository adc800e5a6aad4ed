package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// CreateAdjustmentRequest body para POST /api/stock-adjustments.
// NewStock es puntero para distinguir "ausente" de cero.
type CreateAdjustmentRequest struct {
	MaterialID string           `json:"material_id"`
	NewStock   *decimal.Decimal `json:"new_stock"`
	Reason     string           `json:"reason"`
	Notes      string           `json:"notes,omitempty"`
}

// CreateStockOutRequest body para POST /api/stock-out.
type CreateStockOutRequest struct {
	MaterialID  string           `json:"material_id"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UsageType   string           `json:"usage_type"`
	Destination string           `json:"destination,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// MovementResponse representación JSON de una entrada del libro.
type MovementResponse struct {
	ID             string          `json:"id"`
	MaterialID     string          `json:"material_id"`
	Kind           string          `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	PreviousStock  decimal.Decimal `json:"previous_stock"`
	ResultingStock decimal.Decimal `json:"resulting_stock"`
	Reason         string          `json:"reason,omitempty"`
	UsageType      string          `json:"usage_type,omitempty"`
	Destination    string          `json:"destination,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToMovementResponse mapea la entidad al DTO.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		MaterialID:     m.MaterialID,
		Kind:           m.Kind,
		Quantity:       m.Quantity,
		PreviousStock:  m.PreviousStock,
		ResultingStock: m.ResultingStock,
		Reason:         m.Reason,
		UsageType:      m.UsageType,
		Destination:    m.Destination,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMovementResponses mapea una lista de entidades.
func ToMovementResponses(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// MovementListQuery query params para los listados paginados del libro.
type MovementListQuery struct {
	Page       int    `query:"page"`
	PerPage    int    `query:"per_page"`
	MaterialID string `query:"material_id"`
	Reason     string `query:"reason"`
	UsageType  string `query:"usage_type"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
	Q          string `query:"q"`
}

// PagedMovementsResponse página del libro de movimientos.
type PagedMovementsResponse struct {
	Items       []MovementResponse `json:"items"`
	CurrentPage int                `json:"current_page"`
	LastPage    int                `json:"last_page"`
	PerPage     int                `json:"per_page"`
	Total       int64              `json:"total"`
}

// StatBucket una agrupación de la estadística (por motivo o tipo de uso).
type StatBucket struct {
	Label         string          `json:"label"`
	Count         int64           `json:"count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// StatsResponse resumen para dashboard: totales y desglose por motivo/uso.
type StatsResponse struct {
	TotalMovements   int64           `json:"total_movements"`
	TotalAdjustments int64           `json:"total_adjustments"`
	TotalStockOuts   int64           `json:"total_stock_outs"`
	QuantityOut      decimal.Decimal `json:"quantity_out"` // suma de salidas (valor absoluto)
	ByReason         []StatBucket    `json:"by_reason"`
	ByUsageType      []StatBucket    `json:"by_usage_type"`
}

// ReportRowResponse fila del reporte con material y actor resueltos.
type ReportRowResponse struct {
	MovementResponse
	MaterialCode string `json:"material_code"`
	MaterialName string `json:"material_name"`
	ActorName    string `json:"created_by_name"`
}

// ReportPeriod rango solicitado del reporte (fechas calendario inclusivas).
type ReportPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportResponse reporte completo del período.
type ReportResponse struct {
	Rows   []ReportRowResponse `json:"rows"`
	Period ReportPeriod        `json:"period"`
	Total  int                 `json:"total"`
}

// ToReportRowResponse mapea una fila del reporte.
func ToReportRowResponse(r repository.ReportRow) ReportRowResponse {
	return ReportRowResponse{
		MovementResponse: ToMovementResponse(&r.Movement),
		MaterialCode:     r.MaterialCode,
		MaterialName:     r.MaterialName,
		ActorName:        r.ActorName,
	}
}

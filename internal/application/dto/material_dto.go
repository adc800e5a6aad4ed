package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

// MaterialResponse material con stock actual (para selectores y consultas).
type MaterialResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit,omitempty"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToMaterialResponse mapea la entidad al DTO.
func ToMaterialResponse(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID:           m.ID,
		Code:         m.Code,
		Name:         m.Name,
		Unit:         m.Unit,
		CurrentStock: m.CurrentStock,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToMaterialResponses mapea una lista de materiales.
func ToMaterialResponses(list []*entity.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMaterialResponse(m))
	}
	return out
}

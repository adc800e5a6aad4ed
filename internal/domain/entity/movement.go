package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementKindAdjustment = "adjustment" // ajuste a valor absoluto
	MovementKindStockOut   = "stock_out"  // salida por uso
)

// Motivos válidos para un ajuste de stock.
const (
	ReasonDamage     = "damage"
	ReasonCorrection = "correction"
	ReasonRecount    = "recount"
	ReasonLost       = "lost"
	ReasonOther      = "other"
)

// Tipos de uso válidos para una salida de stock.
const (
	UsageProduction = "production"
	UsageSale       = "sale"
	UsageWaste      = "waste"
	UsageTransfer   = "transfer"
	UsageOther      = "other"
)

// ValidAdjustmentReason indica si el motivo pertenece al catálogo de ajustes.
func ValidAdjustmentReason(reason string) bool {
	switch reason {
	case ReasonDamage, ReasonCorrection, ReasonRecount, ReasonLost, ReasonOther:
		return true
	}
	return false
}

// ValidUsageType indica si el tipo de uso pertenece al catálogo de salidas.
func ValidUsageType(usage string) bool {
	switch usage {
	case UsageProduction, UsageSale, UsageWaste, UsageTransfer, UsageOther:
		return true
	}
	return false
}

// Movement es una entrada inmutable del libro de movimientos de stock.
// Quantity es el delta firmado (negativo en salidas); ResultingStock es la
// foto del saldo al momento del commit. Las correcciones son movimientos
// compensatorios nuevos, nunca ediciones.
type Movement struct {
	ID             string
	MaterialID     string
	Kind           string // adjustment | stock_out
	Quantity       decimal.Decimal
	PreviousStock  decimal.Decimal
	ResultingStock decimal.Decimal
	Reason         string // solo ajustes
	UsageType      string // solo salidas
	Destination    string // solo salidas, opcional
	Notes          string
	CreatedBy      string // UserID
	CreatedAt      time.Time
}

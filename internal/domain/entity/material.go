package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un material del almacén con su stock actual.
// CurrentStock solo lo muta el motor de movimientos (transacción con FOR UPDATE);
// ningún otro componente escribe este campo.
type Material struct {
	ID           string
	Code         string
	Name         string
	Unit         string // kg, pcs, m, etc.
	CurrentStock decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

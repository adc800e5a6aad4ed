package entity

import "time"

// ActivityLog es un registro de auditoría best-effort; su escritura nunca
// afecta la operación principal.
type ActivityLog struct {
	ID          string
	UserID      string
	Action      string // CREATE, LOGIN, ...
	EntityType  string // stock_movements, ...
	EntityID    string
	Description string
	IPAddress   string
	UserAgent   string
	CreatedAt   time.Time
}

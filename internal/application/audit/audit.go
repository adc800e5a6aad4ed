package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

// Recorder escribe registros de actividad de forma desacoplada (fire-and-forget).
// El fallo del sink jamás llega al caller: se loguea y se descarta, y nunca
// bloquea ni revierte la mutación principal.
type Recorder struct {
	repo    repository.ActivityLogRepository
	log     zerolog.Logger
	timeout time.Duration
}

// NewRecorder construye el recorder de auditoría.
func NewRecorder(repo repository.ActivityLogRepository, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log, timeout: 5 * time.Second}
}

// Entry datos del evento a auditar.
type Entry struct {
	UserID      string
	Action      string
	EntityType  string
	EntityID    string
	Description string
	IPAddress   string
	UserAgent   string
}

// Record despacha la escritura en una goroutine propia, con su propio contexto:
// la request que originó el evento puede terminar antes de que el insert acabe.
func (r *Recorder) Record(e Entry) {
	if r == nil || r.repo == nil {
		return
	}
	logEntry := &entity.ActivityLog{
		ID:          uuid.New().String(),
		UserID:      e.UserID,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		IPAddress:   e.IPAddress,
		UserAgent:   e.UserAgent,
		CreatedAt:   time.Now(),
	}
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error().Interface("panic", rec).Msg("panic en auditoría")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.repo.Insert(ctx, logEntry); err != nil {
			r.log.Warn().Err(err).
				Str("action", e.Action).
				Str("entity_type", e.EntityType).
				Msg("escritura de auditoría falló (ignorada)")
		}
	}()
}

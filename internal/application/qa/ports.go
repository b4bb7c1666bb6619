package qa

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error la transacción se revierte completa.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error
}

// Notifier recibe eventos después del commit. Nunca se llama dentro de la transacción.
type Notifier interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Recorder registra el resultado de cada disposición (métricas).
type Recorder interface {
	Observe(outcome string, plan *disposition.Plan)
}

// Resultados posibles de una disposición, usados como etiqueta de métricas.
const (
	OutcomeCommitted  = "committed"
	OutcomeReplayed   = "replayed"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeConflict   = "conflict"
	OutcomeError      = "error"
)

// EventDispositionCompleted tipo de evento publicado tras confirmar una disposición.
const EventDispositionCompleted = "qa.disposition.completed"

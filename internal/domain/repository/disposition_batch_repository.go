package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// DispositionBatchRepository lotes de disposición confirmados (registro de idempotencia).
type DispositionBatchRepository interface {
	// Create devuelve domain.ErrDuplicate si la clave de idempotencia ya existe.
	Create(ctx context.Context, batch *entity.DispositionBatch) error
	GetByID(ctx context.Context, id string) (*entity.DispositionBatch, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.DispositionBatch, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]*entity.DispositionBatch, error)
}

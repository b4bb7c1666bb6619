package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ScrapInventoryRepository inventario de chatarra.
type ScrapInventoryRepository interface {
	Create(ctx context.Context, entry *entity.ScrapInventoryEntry) error
	ListByReference(ctx context.Context, reference string) ([]*entity.ScrapInventoryEntry, error)
}

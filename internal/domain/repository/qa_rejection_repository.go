package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// QARejectionRepository registro de rechazos de calidad (solo inserción y lectura).
type QARejectionRepository interface {
	Create(ctx context.Context, rec *entity.QARejectionRecord) error
	ListByInventory(ctx context.Context, inventoryID string) ([]*entity.QARejectionRecord, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.QARejectionRecord, error)
}

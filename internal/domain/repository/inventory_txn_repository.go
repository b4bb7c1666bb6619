package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// InventoryTxnRepository libro de movimientos; solo inserción.
type InventoryTxnRepository interface {
	Create(ctx context.Context, txn *entity.InventoryTxn) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.InventoryTxn, error)
	ListByReference(ctx context.Context, reference string) ([]*entity.InventoryTxn, error)
}

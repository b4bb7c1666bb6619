package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.InventoryTxnRepository = (*InventoryTxnRepo)(nil)

// InventoryTxnRepo libro de movimientos. No hay UPDATE ni DELETE.
type InventoryTxnRepo struct {
	q Querier
}

// NewInventoryTxnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTxnRepository(q Querier) *InventoryTxnRepo {
	return &InventoryTxnRepo{q: q}
}

const txnColumns = `id, transaction_id, inventory_id, scrap_id, product_id, type, quantity, reference, created_by, created_at`

// Create inserta un movimiento con cantidad con signo.
func (r *InventoryTxnRepo) Create(ctx context.Context, t *entity.InventoryTxn) error {
	query := `INSERT INTO inventory_txn (` + txnColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TransactionID, t.InventoryID, t.ScrapID, t.ProductID, t.Type, t.Quantity, t.Reference, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory_txn: %w", err)
	}
	return nil
}

// ListByTransaction movimientos de una disposición.
func (r *InventoryTxnRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*entity.InventoryTxn, error) {
	return r.list(ctx, `transaction_id = $1`, transactionID)
}

// ListByReference movimientos con una etiqueta de referencia (QA-APPROVED-…, QA-PARTIAL-REWORK-…).
func (r *InventoryTxnRepo) ListByReference(ctx context.Context, reference string) ([]*entity.InventoryTxn, error) {
	return r.list(ctx, `reference = $1`, reference)
}

func (r *InventoryTxnRepo) list(ctx context.Context, where string, arg any) ([]*entity.InventoryTxn, error) {
	rows, err := r.q.Query(ctx, `SELECT `+txnColumns+` FROM inventory_txn WHERE `+where+` ORDER BY seq`, arg)
	if err != nil {
		return nil, fmt.Errorf("list inventory_txn: %w", err)
	}
	defer rows.Close()

	out := []*entity.InventoryTxn{}
	for rows.Next() {
		var t entity.InventoryTxn
		if err := rows.Scan(
			&t.ID, &t.TransactionID, &t.InventoryID, &t.ScrapID, &t.ProductID, &t.Type, &t.Quantity, &t.Reference, &t.CreatedBy, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory_txn: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

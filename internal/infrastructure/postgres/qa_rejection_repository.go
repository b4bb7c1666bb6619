package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.QARejectionRepository = (*QARejectionRepo)(nil)

// QARejectionRepo registros de rechazo; solo inserción.
type QARejectionRepo struct {
	q Querier
}

// NewQARejectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQARejectionRepository(q Querier) *QARejectionRepo {
	return &QARejectionRepo{q: q}
}

const rejectionColumns = `id, batch_id, inventory_id, product_id, quantity, disposition, reason, root_cause,
	corrective_action, notes, rework_wo_id, scrap_id, rejected_by, created_at`

// Create inserta un registro de rechazo.
func (r *QARejectionRepo) Create(ctx context.Context, rec *entity.QARejectionRecord) error {
	query := `INSERT INTO qa_rejection (` + rejectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.BatchID, rec.InventoryID, rec.ProductID, rec.Quantity, rec.Disposition, rec.Reason,
		rec.RootCause, rec.CorrectiveAction, rec.Notes, rec.ReworkWOID, rec.ScrapID, rec.RejectedBy, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert qa_rejection: %w", err)
	}
	return nil
}

// ListByInventory registros de un lote origen.
func (r *QARejectionRepo) ListByInventory(ctx context.Context, inventoryID string) ([]*entity.QARejectionRecord, error) {
	if !isUUID(inventoryID) {
		return []*entity.QARejectionRecord{}, nil
	}
	return r.list(ctx, `inventory_id = $1`, inventoryID)
}

// ListByBatch registros de una disposición.
func (r *QARejectionRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.QARejectionRecord, error) {
	if !isUUID(batchID) {
		return []*entity.QARejectionRecord{}, nil
	}
	return r.list(ctx, `batch_id = $1`, batchID)
}

func (r *QARejectionRepo) list(ctx context.Context, where string, arg any) ([]*entity.QARejectionRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+rejectionColumns+` FROM qa_rejection WHERE `+where+` ORDER BY created_at, seq`, arg)
	if err != nil {
		return nil, fmt.Errorf("list qa_rejection: %w", err)
	}
	defer rows.Close()

	out := []*entity.QARejectionRecord{}
	for rows.Next() {
		var rec entity.QARejectionRecord
		if err := rows.Scan(
			&rec.ID, &rec.BatchID, &rec.InventoryID, &rec.ProductID, &rec.Quantity, &rec.Disposition, &rec.Reason,
			&rec.RootCause, &rec.CorrectiveAction, &rec.Notes, &rec.ReworkWOID, &rec.ScrapID, &rec.RejectedBy, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan qa_rejection: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ScrapInventoryRepository = (*ScrapInventoryRepo)(nil)

// ScrapInventoryRepo inventario de chatarra.
type ScrapInventoryRepo struct {
	q Querier
}

// NewScrapInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewScrapInventoryRepository(q Querier) *ScrapInventoryRepo {
	return &ScrapInventoryRepo{q: q}
}

// Create inserta una entrada de chatarra.
func (r *ScrapInventoryRepo) Create(ctx context.Context, e *entity.ScrapInventoryEntry) error {
	query := `
		INSERT INTO scrap_inventory (id, product_id, material_name, quantity, weight_kg, unit, status, reference, source_inventory_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.MaterialName, e.Quantity, e.WeightKg, e.Unit, e.Status, e.Reference, e.SourceInventoryID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scrap_inventory: %w", err)
	}
	return nil
}

// ListByReference entradas con una referencia (QA-REJECTED-PARTIAL-<lote>).
func (r *ScrapInventoryRepo) ListByReference(ctx context.Context, reference string) ([]*entity.ScrapInventoryEntry, error) {
	query := `
		SELECT id, product_id, material_name, quantity, weight_kg, unit, status, reference, source_inventory_id, created_at
		FROM scrap_inventory WHERE reference = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("list scrap_inventory: %w", err)
	}
	defer rows.Close()

	out := []*entity.ScrapInventoryEntry{}
	for rows.Next() {
		var e entity.ScrapInventoryEntry
		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.MaterialName, &e.Quantity, &e.WeightKg, &e.Unit, &e.Status, &e.Reference, &e.SourceInventoryID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan scrap_inventory: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

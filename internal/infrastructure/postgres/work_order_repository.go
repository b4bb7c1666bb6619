package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo órdenes de trabajo de retrabajo.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// NextSequence incrementa el contador del año con un upsert atómico. El primer uso de un año
// se siembra con el conteo de órdenes MWO existentes para continuar la numeración heredada.
// La fila del año queda bloqueada hasta el fin de la transacción.
func (r *WorkOrderRepo) NextSequence(ctx context.Context, year int) (int, error) {
	query := `
		INSERT INTO work_order_sequence (year, last_value)
		VALUES ($1, (SELECT COUNT(*) FROM work_order WHERE wo_no LIKE $2) + 1)
		ON CONFLICT (year) DO UPDATE SET last_value = work_order_sequence.last_value + 1
		RETURNING last_value`
	pattern := fmt.Sprintf("%s-%d-%%", disposition.WorkOrderPrefix, year)
	var next int
	if err := r.q.QueryRow(ctx, query, year, pattern).Scan(&next); err != nil {
		return 0, fmt.Errorf("next work order sequence: %w", err)
	}
	return next, nil
}

// Create inserta la orden; wo_no es único.
func (r *WorkOrderRepo) Create(ctx context.Context, wo *entity.WorkOrder) error {
	query := `
		INSERT INTO work_order (id, wo_no, product_id, quantity, type, status, source_inventory_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		wo.ID, wo.WONo, wo.ProductID, wo.Quantity, wo.Type, wo.Status, wo.SourceInventoryID, wo.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("orden %s: %w", wo.WONo, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert work_order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, wo_no, product_id, quantity, type, status, source_inventory_id, created_at
		FROM work_order WHERE id = $1`
	var wo entity.WorkOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&wo.ID, &wo.WONo, &wo.ProductID, &wo.Quantity, &wo.Type, &wo.Status, &wo.SourceInventoryID, &wo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work_order: %w", err)
	}
	return &wo, nil
}

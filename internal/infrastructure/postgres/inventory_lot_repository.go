package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.InventoryLotRepository = (*InventoryLotRepo)(nil)

// InventoryLotRepo implementación de InventoryLotRepository sobre PostgreSQL (usable con pool o tx).
type InventoryLotRepo struct {
	q Querier
}

// NewInventoryLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewInventoryLotRepository(q Querier) *InventoryLotRepo {
	return &InventoryLotRepo{q: q}
}

const lotColumns = `id, product_id, material_id, location_id, quantity, status, batch_no, reference_wo_id, created_at, updated_at`

func scanLot(row rowScanner) (*entity.InventoryLot, error) {
	var l entity.InventoryLot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.MaterialID, &l.LocationID, &l.Quantity, &l.Status,
		&l.BatchNo, &l.ReferenceWOID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *InventoryLotRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.InventoryLot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// GetByID obtiene un lote por ID.
func (r *InventoryLotRepo) GetByID(ctx context.Context, id string) (*entity.InventoryLot, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get lot", `SELECT `+lotColumns+` FROM inventory WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila para update (SELECT FOR UPDATE).
// Una segunda disposición del mismo lote espera aquí hasta que la primera confirme o revierta.
func (r *InventoryLotRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryLot, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get lot for update", `SELECT `+lotColumns+` FROM inventory WHERE id = $1 FOR UPDATE`, id)
}

// FindAvailableForUpdate toma un advisory lock por (producto, ubicación) y luego busca el lote AVAILABLE.
// El advisory lock evita que dos transacciones creen a la vez dos lotes destino para el mismo par.
func (r *InventoryLotRepo) FindAvailableForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryLot, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`, productID, locationID); err != nil {
		return nil, fmt.Errorf("advisory lock lote destino: %w", err)
	}
	query := `
		SELECT ` + lotColumns + `
		FROM inventory
		WHERE product_id = $1 AND location_id = $2 AND status = $3 AND material_id IS NULL
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE`
	return r.getOne(ctx, "find available lot", query, productID, locationID, entity.LotStatusAvailable)
}

// Create inserta un lote. La DB exige product_id XOR material_id y cantidad >= 0.
func (r *InventoryLotRepo) Create(ctx context.Context, lot *entity.InventoryLot) error {
	query := `
		INSERT INTO inventory (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.ProductID, lot.MaterialID, lot.LocationID, lot.Quantity, lot.Status,
		lot.BatchNo, lot.ReferenceWOID, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// Update actualiza cantidad, estado y ubicación del lote.
func (r *InventoryLotRepo) Update(ctx context.Context, lot *entity.InventoryLot) error {
	query := `
		UPDATE inventory
		SET quantity = $2, status = $3, location_id = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, lot.ID, lot.Quantity, lot.Status, lot.LocationID, lot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", lot.ID, domain.ErrNotFound)
	}
	return nil
}

// List lista lotes con filtros opcionales, ordenados por fecha de creación.
func (r *InventoryLotRepo) List(ctx context.Context, f repository.LotFilter) ([]*entity.InventoryLot, error) {
	if (f.ProductID != "" && !isUUID(f.ProductID)) || (f.LocationID != "" && !isUUID(f.LocationID)) {
		return []*entity.InventoryLot{}, nil
	}
	where, args := lotFilterSQL(f)
	query := `SELECT ` + lotColumns + ` FROM inventory` + where + ` ORDER BY created_at, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	out := []*entity.InventoryLot{}
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// lotFilterSQL arma el WHERE de List. kind=material filtra material_id IS NOT NULL.
func lotFilterSQL(f repository.LotFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.LocationID != "" {
		add("location_id = $%d", f.LocationID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	switch f.Kind {
	case repository.LotKindMaterial:
		conds = append(conds, "material_id IS NOT NULL")
	case repository.LotKindProduct:
		conds = append(conds, "product_id IS NOT NULL")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

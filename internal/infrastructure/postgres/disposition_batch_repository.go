package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.DispositionBatchRepository = (*DispositionBatchRepo)(nil)

// DispositionBatchRepo disposiciones confirmadas y su clave de idempotencia.
type DispositionBatchRepo struct {
	q Querier
}

// NewDispositionBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDispositionBatchRepository(q Querier) *DispositionBatchRepo {
	return &DispositionBatchRepo{q: q}
}

const batchColumns = `id, inventory_id, product_id, idempotency_key, request_hash, source_quantity,
	approved_quantity, notes, rejected_by, result, created_at`

func scanBatch(row rowScanner) (*entity.DispositionBatch, error) {
	var b entity.DispositionBatch
	var result []byte
	err := row.Scan(
		&b.ID, &b.InventoryID, &b.ProductID, &b.IdempotencyKey, &b.RequestHash, &b.SourceQuantity,
		&b.ApprovedQuantity, &b.Notes, &b.RejectedBy, &result, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Result = result
	return &b, nil
}

// Create inserta la disposición. Devuelve domain.ErrDuplicate si la clave de idempotencia ya existe.
func (r *DispositionBatchRepo) Create(ctx context.Context, b *entity.DispositionBatch) error {
	query := `INSERT INTO qa_disposition_batch (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.InventoryID, b.ProductID, b.IdempotencyKey, b.RequestHash, b.SourceQuantity,
		b.ApprovedQuantity, b.Notes, b.RejectedBy, []byte(b.Result), b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert qa_disposition_batch: %w", err)
	}
	return nil
}

func (r *DispositionBatchRepo) getOne(ctx context.Context, where string, arg any) (*entity.DispositionBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM qa_disposition_batch WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get qa_disposition_batch: %w", err)
	}
	return b, nil
}

// GetByID obtiene una disposición por ID.
func (r *DispositionBatchRepo) GetByID(ctx context.Context, id string) (*entity.DispositionBatch, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `id = $1`, id)
}

// GetByIdempotencyKey obtiene la disposición confirmada con esa clave.
func (r *DispositionBatchRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.DispositionBatch, error) {
	return r.getOne(ctx, `idempotency_key = $1`, key)
}

// ListSince disposiciones creadas desde since, más antiguas primero. limit <= 0 sin límite.
func (r *DispositionBatchRepo) ListSince(ctx context.Context, since time.Time, limit int) ([]*entity.DispositionBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM qa_disposition_batch WHERE created_at >= $1 ORDER BY created_at, id`
	args := []any{since}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list qa_disposition_batch: %w", err)
	}
	defer rows.Close()

	out := []*entity.DispositionBatch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan qa_disposition_batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

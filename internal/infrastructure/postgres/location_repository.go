package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo ubicaciones sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) get(ctx context.Context, where string, arg any) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, `SELECT id, code, name, kind, created_at FROM location WHERE `+where, arg).
		Scan(&l.ID, &l.Code, &l.Name, &l.Kind, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.get(ctx, "id = $1", id)
}

// GetByCode obtiene una ubicación por su código.
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.get(ctx, "code = $1", code)
}

// EnsureByCode inserta la ubicación si no existe (ON CONFLICT DO NOTHING) y la devuelve.
// Dos transacciones concurrentes obtienen la misma fila.
func (r *LocationRepo) EnsureByCode(ctx context.Context, code, name, kind string) (*entity.Location, error) {
	query := `
		INSERT INTO location (id, code, name, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, uuid.New().String(), code, name, kind, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("ensure location %s: %w", code, err)
	}
	loc, err := r.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ensure location %s: no visible tras insertar", code)
	}
	return loc, nil
}
